package models

// Setting is a persisted key/value pair for site-wide configuration that is
// editable at runtime (AI credentials, model, prompt). Reads always go to the
// store; there is no in-memory cache to invalidate.
type Setting struct {
	Key   string `gorm:"primaryKey;size:100" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}
