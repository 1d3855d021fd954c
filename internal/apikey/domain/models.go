package domain

import "time"

// APIKey authenticates API calls for one company. Only the SHA-256 hash of
// the raw key is stored; the raw value is shown once at issue time.
type APIKey struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyID  string     `gorm:"type:varchar(36);not null;index" json:"company_id"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	KeyHash    string     `gorm:"type:text;not null;uniqueIndex" json:"-"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LastUsedAt *time.Time `gorm:"" json:"last_used_at,omitempty"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }
