package profile

// Profile is a local person using the planner. All budget data is keyed by
// profile so a household can keep separate plans in one database file.
type Profile struct {
	Id          int
	Uid         string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Currency is an ISO 4217 code used by the frontend for formatting.
	Currency string
}
