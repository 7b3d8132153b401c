package settings

import "time"

const KeyCommissionRate = "commission_rate"

// PlatformSetting is a key/value row of platform-wide configuration
type PlatformSetting struct {
	Key       string    `json:"key" gorm:"primaryKey;size:64"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommissionResponse struct {
	Rate      float64    `json:"rate"`
	IsDefault bool       `json:"is_default"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type UpdateCommissionRequest struct {
	Rate *float64 `json:"rate" validate:"required,gte=0,lte=100"`
}
