package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusScheduled NotificationStatus = "scheduled"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusCancelled NotificationStatus = "cancelled"
	NotificationStatusFailed    NotificationStatus = "failed"
)

type DeviceToken struct {
	ID                   uuid.UUID  `json:"id"`
	Token                string     `json:"token"`
	DeviceID             *string    `json:"device_id"`
	ZoneID               *uuid.UUID `json:"zone_id"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	CreatedAt            time.Time  `json:"created_at"`
}

type NotificationSchedule struct {
	ID             uuid.UUID          `json:"id"`
	DeviceTokenID  uuid.UUID          `json:"device_token_id"`
	GarbageTypeID  uuid.UUID          `json:"garbage_type_id"`
	ScheduledDate  string             `json:"scheduled_date"`
	NotificationAt time.Time          `json:"notification_date"`
	ExternalID     *string            `json:"external_id"`
	Status         NotificationStatus `json:"status"`
}

// Reminder is a due notification joined with what is needed to deliver it.
type Reminder struct {
	NotificationID uuid.UUID
	Token          string
	ZoneID         uuid.UUID
	ScheduledDate  string
	NotificationAt time.Time
	GarbageType    GarbageType
}
