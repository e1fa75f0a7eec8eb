package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/model"
	"github.com/nurpe/collection-calendar/internal/service/servicetest"
)

var (
	_ CatalogStore  = (*servicetest.Store)(nil)
	_ ScheduleStore = (*servicetest.Store)(nil)
	_ DeviceStore   = (*servicetest.Store)(nil)
)

var lisbon = time.FixedZone("WET", 0)

type fixture struct {
	store *servicetest.Store
	city  model.City
	zone  model.Zone
	papel model.GarbageType
	vidro model.GarbageType
	cfg   *config.Config
}

// newFixture seeds one zone collecting paper every Monday from 2024-01-01 and
// glass on Fridays of odd ISO weeks from 2024-01-05.
func newFixture() *fixture {
	store := servicetest.New()
	city := store.AddCity("Lisboa")
	zone := store.AddZone(city.ID, "Centro")
	papel := store.AddGarbageType("papel", "Papel", "#2563EB")
	vidro := store.AddGarbageType("vidro", "Vidro", "#16A34A")
	store.AddSchedule(zone.ID, papel.ID, time.Monday, 1, "2024-01-01")
	store.AddSchedule(zone.ID, vidro.ID, time.Friday, 2, "2024-01-05")

	return &fixture{
		store: store,
		city:  city,
		zone:  zone,
		papel: papel,
		vidro: vidro,
		cfg: &config.Config{
			Calendar: config.CalendarConfig{Timezone: "WET", Location: lisbon},
			Notify:   config.NotifyConfig{Hour: 18, HorizonDays: 28},
		},
	}
}

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func nop() zerolog.Logger {
	return zerolog.Nop()
}
