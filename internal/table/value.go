package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind tells which of the three cell shapes a Value holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
)

// Value is a single cell: text, number, or absent. The zero Value is absent.
type Value struct {
	kind Kind
	text string
	num  float64
}

// Null is the absent cell.
var Null = Value{}

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// ValueOf converts a decoded JSON or database scalar into a Value. Booleans
// and other scalars are kept as their text form.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null
	case Value:
		return v
	case string:
		return Text(v)
	case *string:
		if v == nil {
			return Null
		}
		return Text(*v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return Number(f)
		}
		return Text(v.String())
	case []byte:
		return Text(string(v))
	case bool:
		return Text(strconv.FormatBool(v))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Null
		}
		return Text(string(b))
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// String renders the value for display. Absent renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float interprets the value as a number. Text is parsed after trimming
// spaces; an empty string counts as 0. ok is false for absent cells and for
// text that is not a finite number.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindNumber:
		return v.num, !math.IsNaN(v.num) && !math.IsInf(v.num, 0)
	case KindText:
		s := strings.TrimSpace(v.text)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumberOrZero is Float with every failure coerced to 0.
func (v Value) NumberOrZero() float64 {
	f, ok := v.Float()
	if !ok {
		return 0
	}
	return f
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}
