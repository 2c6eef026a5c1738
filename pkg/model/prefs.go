package model

// SchedulingPreferences is the value object configuring the auto-scheduler.
// It has no identity and is not persisted; the engine normalizes malformed
// values to documented defaults before planning.
type SchedulingPreferences struct {
	PreferMorning     bool `json:"prefer_morning"`
	PreferEvening     bool `json:"prefer_evening"`
	MaxSessionMinutes int  `json:"max_session_minutes"` // 30-180
	BreakMinutes      int  `json:"break_minutes"`       // 5-30
	WorkdaysOnly      bool `json:"workdays_only"`
}

// Insights is the opaque annotation block attached to an auto-scheduling
// response. The engine computes none of it; it passes through whatever the
// insight generator produced.
type Insights struct {
	Summary      string   `json:"summary"`
	TotalMinutes int      `json:"total_minutes"`
	Days         int      `json:"days"`
	BusiestDate  string   `json:"busiest_date,omitempty"`
	Tips         []string `json:"tips,omitempty"`
	Source       string   `json:"source"` // "local" or "ai"
}
