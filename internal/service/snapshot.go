package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
	"github.com/nurpe/collection-calendar/internal/schedule"
)

// zoneSnapshot fetches the zone's garbage types and active rules and compiles them.
type zoneSnapshot struct {
	catalog   CatalogStore
	schedules ScheduleStore
}

func (z zoneSnapshot) load(ctx context.Context, zoneID uuid.UUID) (*model.Zone, *schedule.Resolver, error) {
	if zoneID == uuid.Nil {
		return nil, nil, fmt.Errorf("%w: zone_id is required", ErrInvalidInput)
	}
	zone, err := z.catalog.GetZone(ctx, zoneID)
	if err != nil {
		return nil, nil, mapStoreError(err)
	}
	types, err := z.catalog.ListGarbageTypes(ctx)
	if err != nil {
		return nil, nil, err
	}
	rules, err := z.schedules.ListActiveByZone(ctx, zoneID)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := schedule.NewResolver(rules, types)
	if err != nil {
		return nil, nil, fmt.Errorf("zone %s: %w", zoneID, err)
	}
	return zone, resolver, nil
}

func isMalformed(err error) bool {
	return errors.Is(err, schedule.ErrMalformedRule)
}
