package models

// Student columns.
const (
	FieldUserID    = "user_id"
	FieldFullName  = "fullname"
	FieldMuid      = "muid"
	FieldKarma     = "karma"
	FieldRank      = "rank"
	FieldLevel     = "level"
	FieldJointDate = "joint_date"
)

// StudentFields is the allow-list of columns written to the students table.
var StudentFields = []string{
	FieldUserID,
	FieldFullName,
	FieldMuid,
	FieldKarma,
	FieldRank,
	FieldLevel,
	FieldJointDate,
}

// KarmaHistoryEntry is appended once per student on every sync pass.
type KarmaHistoryEntry struct {
	StudentID any
	Karma     int64
}

func (e KarmaHistoryEntry) Record() Record {
	return Record{"student_id": e.StudentID, "karma": e.Karma}
}
