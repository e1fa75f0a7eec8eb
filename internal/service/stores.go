package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
)

type CatalogStore interface {
	ListCities(ctx context.Context) ([]model.City, error)
	GetCity(ctx context.Context, id uuid.UUID) (*model.City, error)
	GetZone(ctx context.Context, id uuid.UUID) (*model.Zone, error)
	ListGarbageTypes(ctx context.Context) ([]model.GarbageType, error)
	GetGarbageType(ctx context.Context, id uuid.UUID) (*model.GarbageType, error)
	CreateGarbageType(ctx context.Context, gt model.GarbageType) (*model.GarbageType, error)
}

type ScheduleStore interface {
	ListActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]model.CollectionSchedule, error)
	ListByZone(ctx context.Context, zoneID uuid.UUID) ([]model.CollectionSchedule, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error)
	Create(ctx context.Context, s model.CollectionSchedule) (*model.CollectionSchedule, error)
	Update(ctx context.Context, s model.CollectionSchedule) (*model.CollectionSchedule, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type DeviceStore interface {
	GetByToken(ctx context.Context, token string) (*model.DeviceToken, error)
	Insert(ctx context.Context, token string, deviceID *string, zoneID uuid.UUID) (*model.DeviceToken, error)
	Reactivate(ctx context.Context, token string, deviceID *string, zoneID *uuid.UUID) (*model.DeviceToken, error)
	UpdateZone(ctx context.Context, token string, zoneID uuid.UUID) error
	SetEnabled(ctx context.Context, token string, enabled bool) error
	ListEnabled(ctx context.Context) ([]model.DeviceToken, error)
	CancelScheduled(ctx context.Context, deviceTokenID uuid.UUID) error
	ReplaceScheduled(ctx context.Context, deviceTokenID uuid.UUID, plan []model.NotificationSchedule) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error)
	MarkStatus(ctx context.Context, notificationID uuid.UUID, status model.NotificationStatus, externalID *string) error
}
