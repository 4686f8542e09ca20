package model

import "time"

// PushSubscription holds a browser push subscription registered by a user as
// a reminder-channel target. A user may register several devices.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UsuarioID uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
