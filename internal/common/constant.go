package common

// Table names of the persisted entities.
const (
	TableStudents     = "students"
	TableKarmaHistory = "karma_history"
	TableCampus       = "campus_details"
)

// Upstream resource names used in FetchError.
const (
	ResourceStudents = "students"
	ResourceCampus   = "campus"
	ResourceSheet    = "sheet"
)
