package models

// CampusSnapshot is appended once per sync pass. Fields hold whatever scalar
// the upstream summary carried (nil when missing).
type CampusSnapshot struct {
	Rank          any
	Karma         any
	TotalMembers  any
	ActiveMembers any
}

func (c CampusSnapshot) Record() Record {
	return Record{
		"rank":           c.Rank,
		"karma":          c.Karma,
		"total_members":  c.TotalMembers,
		"active_members": c.ActiveMembers,
	}
}
