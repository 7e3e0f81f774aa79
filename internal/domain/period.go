package domain

// Period is a reporting window, e.g. "July 2024 to June 2025". The ingest
// pipeline resolves the human-readable name from the submitted period id;
// failure to resolve is non-fatal.
type Period struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Period   string `gorm:"column:period" json:"period"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

func (Period) TableName() string { return "sdp_period" }
