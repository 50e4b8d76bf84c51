package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/karmaboard/internal/server/models"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]string
		want models.Record
	}{
		{"full_name rename", map[string]string{"full_name": "Ann"}, models.Record{"fullname": "Ann"}},
		{"join_date rename", map[string]string{"join_date": "2024-01-01"}, models.Record{"joint_date": "2024-01-01"}},
		{"text is trimmed", map[string]string{"level": "  Gold "}, models.Record{"level": "Gold"}},
		{"blank text is nil", map[string]string{"muid": "   "}, models.Record{"muid": nil}},
		{"integers", map[string]string{"karma": "150", "rank": " 3 "}, models.Record{"karma": int64(150), "rank": int64(3)}},
		{"empty numbers are zero", map[string]string{"karma": "", "rank": ""}, models.Record{"karma": int64(0), "rank": int64(0)}},
		{"garbage numbers are zero", map[string]string{"karma": "lots", "rank": "NaN"}, models.Record{"karma": int64(0), "rank": int64(0)}},
		{"decimals truncate", map[string]string{"karma": "12.9"}, models.Record{"karma": int64(12)}},
		{"unknown fields pass through", map[string]string{"email": "a@b"}, models.Record{"email": "a@b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestFilter(t *testing.T) {
	in := models.Record{"user_id": "u1", "email": "a@b", "karma": int64(1), "college": "X"}
	assert.Equal(t, models.Record{"user_id": "u1", "karma": int64(1)}, Filter(in))
	assert.Contains(t, in, "email", "input is left alone")
}

func TestStudents(t *testing.T) {
	tbl, err := table.ParseDelimited("user_id,full_name,karma,rank,level,join_date,email\nu1,Ann,150,3,Gold,2024-01-01,ann@x\nu2,Bob,,,,,\nu3\n", ',')
	require.NoError(t, err)

	got := Students(tbl)
	require.Len(t, got, 3)

	assert.Equal(t, models.Record{
		"user_id":    "u1",
		"fullname":   "Ann",
		"karma":      int64(150),
		"rank":       int64(3),
		"level":      "Gold",
		"joint_date": "2024-01-01",
	}, got[0])

	assert.Equal(t, int64(0), got[1]["karma"])
	assert.Equal(t, int64(0), got[1]["rank"])
	assert.Nil(t, got[1]["level"])

	assert.Equal(t, "u3", got[2]["user_id"])
	assert.Nil(t, got[2]["fullname"])
	assert.Equal(t, int64(0), got[2]["karma"])
}

func TestHistory(t *testing.T) {
	students := []models.Record{
		{"user_id": "u1", "karma": int64(150)},
		{"user_id": "u2", "karma": int64(0)},
		{"fullname": "no id"},
	}

	assert.Equal(t, []models.KarmaHistoryEntry{
		{StudentID: "u1", Karma: 150},
		{StudentID: "u2", Karma: 0},
		{StudentID: nil, Karma: 0},
	}, History(students))
}

func TestSnapshot(t *testing.T) {
	got := Snapshot(map[string]any{
		"rank":           float64(4),
		"total_karma":    float64(98765),
		"total_members":  float64(210),
		"active_members": "150",
		"college":        "ignored",
	})

	assert.Equal(t, models.Record{
		"rank":           int64(4),
		"karma":          int64(98765),
		"total_members":  int64(210),
		"active_members": "150",
	}, got.Record())

	empty := Snapshot(nil).Record()
	assert.Len(t, empty, 4)
	assert.Nil(t, empty["karma"])
}
