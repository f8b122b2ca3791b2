package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription with no associated orders receives alerts for every order.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Orders []*RepairOrder `gorm:"many2many:subscription_order_mapping;"`
}
