package notification

import (
	"errors"
	"time"
)

var validDeviceTypes = map[string]struct{}{
	"ios":     {},
	"android": {},
	"web":     {},
}

// Domain errors
var (
	ErrInvalidDeviceType = errors.New("device type must be 'ios', 'android' or 'web'")
	ErrInvalidToken      = errors.New("device token is required")
)

// DeviceToken represents a registered FCM device token
type DeviceToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Token      string    `json:"token"`
	DeviceType string    `json:"deviceType"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// CreateDeviceTokenParams contains parameters for registering a device
type CreateDeviceTokenParams struct {
	UserID     string
	Token      string
	DeviceType string
}

func (p CreateDeviceTokenParams) Validate() error {
	if p.Token == "" {
		return ErrInvalidToken
	}
	if _, ok := validDeviceTypes[p.DeviceType]; !ok {
		return ErrInvalidDeviceType
	}
	return nil
}
