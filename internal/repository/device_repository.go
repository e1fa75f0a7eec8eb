package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/collection-calendar/internal/model"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

const deviceColumns = `id, token, device_id, zone_id, notifications_enabled, created_at`

func (r *DeviceRepository) GetByToken(ctx context.Context, token string) (*model.DeviceToken, error) {
	var device model.DeviceToken
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+deviceColumns+`
		FROM device_tokens
		WHERE token = ?
		LIMIT 1
	`, token).Scan(&device).Error; err != nil {
		return nil, err
	}
	if device.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &device, nil
}

func (r *DeviceRepository) Insert(ctx context.Context, token string, deviceID *string, zoneID uuid.UUID) (*model.DeviceToken, error) {
	var saved model.DeviceToken
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO device_tokens (token, device_id, zone_id, notifications_enabled)
		VALUES (?, ?, ?, TRUE)
		RETURNING `+deviceColumns,
		token, deviceID, zoneID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Reactivate re-enables an existing token. A nil zoneID keeps the stored zone.
func (r *DeviceRepository) Reactivate(ctx context.Context, token string, deviceID *string, zoneID *uuid.UUID) (*model.DeviceToken, error) {
	var saved model.DeviceToken
	err := r.db.WithContext(ctx).Raw(`
		UPDATE device_tokens
		SET notifications_enabled = TRUE,
			device_id = COALESCE(?, device_id),
			zone_id = COALESCE(?, zone_id),
			updated_at = NOW()
		WHERE token = ?
		RETURNING `+deviceColumns,
		deviceID, zoneID, token,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *DeviceRepository) UpdateZone(ctx context.Context, token string, zoneID uuid.UUID) error {
	return r.execOne(ctx, `
		UPDATE device_tokens
		SET zone_id = ?, updated_at = NOW()
		WHERE token = ?
	`, zoneID, token)
}

func (r *DeviceRepository) SetEnabled(ctx context.Context, token string, enabled bool) error {
	return r.execOne(ctx, `
		UPDATE device_tokens
		SET notifications_enabled = ?, updated_at = NOW()
		WHERE token = ?
	`, enabled, token)
}

func (r *DeviceRepository) ListEnabled(ctx context.Context) ([]model.DeviceToken, error) {
	var devices []model.DeviceToken
	if err := r.db.WithContext(ctx).Raw(`
		SELECT ` + deviceColumns + `
		FROM device_tokens
		WHERE notifications_enabled AND zone_id IS NOT NULL
		ORDER BY created_at ASC
	`).Scan(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *DeviceRepository) CancelScheduled(ctx context.Context, deviceTokenID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE notification_schedules
		SET status = 'cancelled', updated_at = NOW()
		WHERE device_token_id = ? AND status = 'scheduled'
	`, deviceTokenID).Error
}

// ReplaceScheduled cancels pending reminders of the device and inserts the new plan atomically.
func (r *DeviceRepository) ReplaceScheduled(ctx context.Context, deviceTokenID uuid.UUID, plan []model.NotificationSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE notification_schedules
			SET status = 'cancelled', updated_at = NOW()
			WHERE device_token_id = ? AND status = 'scheduled'
		`, deviceTokenID).Error; err != nil {
			return err
		}

		for _, item := range plan {
			if err := tx.Exec(`
				INSERT INTO notification_schedules (
					device_token_id,
					garbage_type_id,
					scheduled_date,
					notification_date,
					status
				) VALUES (?, ?, ?::date, ?, 'scheduled')
			`, deviceTokenID, item.GarbageTypeID, item.ScheduledDate, item.NotificationAt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DeviceRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var rows []struct {
		NotificationID uuid.UUID
		Token          string
		ZoneID         uuid.UUID
		ScheduledDate  string
		NotificationAt time.Time
		TypeID         uuid.UUID
		TypeCode       string
		TypeNamePT     string
		TypeNameEN     string
		TypeNameES     string
		TypeColorHex   string
		TypeIcon       string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ns.id AS notification_id,
			dt.token,
			dt.zone_id,
			to_char(ns.scheduled_date, 'YYYY-MM-DD') AS scheduled_date,
			ns.notification_date AS notification_at,
			gt.id AS type_id,
			gt.code AS type_code,
			gt.name_pt AS type_name_pt,
			gt.name_en AS type_name_en,
			gt.name_es AS type_name_es,
			gt.color_hex AS type_color_hex,
			gt.icon AS type_icon
		FROM notification_schedules ns
		JOIN device_tokens dt ON dt.id = ns.device_token_id
		JOIN garbage_types gt ON gt.id = ns.garbage_type_id
		WHERE ns.status = 'scheduled'
			AND ns.notification_date <= ?
			AND dt.notifications_enabled
			AND dt.zone_id IS NOT NULL
		ORDER BY ns.notification_date ASC
		LIMIT ?
	`, now, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	reminders := make([]model.Reminder, 0, len(rows))
	for _, row := range rows {
		reminders = append(reminders, model.Reminder{
			NotificationID: row.NotificationID,
			Token:          row.Token,
			ZoneID:         row.ZoneID,
			ScheduledDate:  row.ScheduledDate,
			NotificationAt: row.NotificationAt,
			GarbageType: model.GarbageType{
				ID:       row.TypeID,
				Code:     row.TypeCode,
				NamePT:   row.TypeNamePT,
				NameEN:   row.TypeNameEN,
				NameES:   row.TypeNameES,
				ColorHex: row.TypeColorHex,
				Icon:     row.TypeIcon,
			},
		})
	}
	return reminders, nil
}

func (r *DeviceRepository) MarkStatus(ctx context.Context, notificationID uuid.UUID, status model.NotificationStatus, externalID *string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE notification_schedules
		SET status = ?::notification_status,
			external_id = COALESCE(?, external_id),
			updated_at = NOW()
		WHERE id = ?
	`, string(status), externalID, notificationID).Error
}

func (r *DeviceRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
