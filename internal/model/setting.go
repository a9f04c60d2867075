package model

// Setting is a key-value pair consumed by presentation-layer collaborators
// (business mode, currency, locale). The transactional core never reads it.
type Setting struct {
	Key   string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}
