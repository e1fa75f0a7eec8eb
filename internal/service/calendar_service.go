package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/ics"
	"github.com/nurpe/collection-calendar/internal/model"
	"github.com/nurpe/collection-calendar/internal/schedule"
)

const (
	maxICSDays  = 400
	maxFeedDays = 60
)

type ExcelGenerator interface {
	Generate(doc model.CalendarDocument) ([]byte, error)
}

type PDFGenerator interface {
	Generate(doc model.CalendarDocument) ([]byte, error)
}

type CalendarService struct {
	snapshot zoneSnapshot
	excel    ExcelGenerator
	pdf      PDFGenerator
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

type CalendarView struct {
	Zone model.Zone               `json:"zone"`
	Mode schedule.Mode            `json:"mode"`
	From schedule.Date            `json:"from"`
	To   schedule.Date            `json:"to"`
	Days []schedule.CollectionDay `json:"days"`
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

type ICSOptions struct {
	From     schedule.Date
	Days     int
	Language string
	// ReminderTime is "HH:MM" on the day before each collection; empty disables alarms.
	ReminderTime string
}

func NewCalendarService(
	catalog CatalogStore,
	schedules ScheduleStore,
	excel ExcelGenerator,
	pdf PDFGenerator,
	cfg *config.Config,
	log zerolog.Logger,
) *CalendarService {
	loc := cfg.Calendar.Location
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{
		snapshot: zoneSnapshot{catalog: catalog, schedules: schedules},
		excel:    excel,
		pdf:      pdf,
		loc:      loc,
		now:      time.Now,
		log:      log.With().Str("component", "calendar").Logger(),
	}
}

// WithClock replaces the wall clock used to determine today.
func (s *CalendarService) WithClock(now func() time.Time) *CalendarService {
	s.now = now
	return s
}

// Today is the current calendar date in the configured timezone.
func (s *CalendarService) Today() schedule.Date {
	return schedule.DateOf(s.now().In(s.loc))
}

func (s *CalendarService) orToday(d schedule.Date) schedule.Date {
	if d.IsZero() {
		return s.Today()
	}
	return d
}

func (s *CalendarService) resolver(ctx context.Context, zoneID uuid.UUID) (*model.Zone, *schedule.Resolver, error) {
	zone, resolver, err := s.snapshot.load(ctx, zoneID)
	if err != nil {
		if isMalformed(err) {
			s.log.Error().Err(err).Str("zone_id", zoneID.String()).Msg("zone has malformed schedules")
		}
		return nil, nil, err
	}
	return zone, resolver, nil
}

func (s *CalendarService) Day(ctx context.Context, zoneID uuid.UUID, date schedule.Date) (*schedule.CollectionDay, error) {
	_, resolver, err := s.resolver(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	date = s.orToday(date)
	return &schedule.CollectionDay{Date: date, GarbageTypes: resolver.CollectionsOn(date)}, nil
}

func (s *CalendarService) Week(ctx context.Context, zoneID uuid.UUID, anchor schedule.Date) (*CalendarView, error) {
	return s.view(ctx, zoneID, anchor, schedule.ModeWeek)
}

func (s *CalendarService) Month(ctx context.Context, zoneID uuid.UUID, anchor schedule.Date) (*CalendarView, error) {
	return s.view(ctx, zoneID, anchor, schedule.ModeMonth)
}

func (s *CalendarService) view(ctx context.Context, zoneID uuid.UUID, anchor schedule.Date, mode schedule.Mode) (*CalendarView, error) {
	zone, resolver, err := s.resolver(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	days := resolver.Expand(s.orToday(anchor), mode)
	return &CalendarView{
		Zone: *zone,
		Mode: mode,
		From: days[0].Date,
		To:   days[len(days)-1].Date,
		Days: days,
	}, nil
}

func (s *CalendarService) Next(ctx context.Context, zoneID uuid.UUID, today schedule.Date) ([]schedule.NextCollection, error) {
	_, resolver, err := s.resolver(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return resolver.Next(s.orToday(today)), nil
}

func (s *CalendarService) ExportMonthXLSX(ctx context.Context, zoneID uuid.UUID, anchor schedule.Date, lang string) (*ExportResult, error) {
	doc, err := s.monthDocument(ctx, zoneID, anchor, lang)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*doc)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName:    buildFileName(*doc, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

func (s *CalendarService) ExportMonthPDF(ctx context.Context, zoneID uuid.UUID, anchor schedule.Date, lang string) (*ExportResult, error) {
	doc, err := s.monthDocument(ctx, zoneID, anchor, lang)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*doc)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName:    buildFileName(*doc, "pdf"),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *CalendarService) ExportICS(ctx context.Context, zoneID uuid.UUID, opts ICSOptions) (*ExportResult, error) {
	if opts.Days == 0 {
		opts.Days = 90
	}
	if opts.Days < 1 || opts.Days > maxICSDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxICSDays)
	}
	var alarm *ics.Alarm
	if opts.ReminderTime != "" {
		parsed, err := ics.ParseAlarm(opts.ReminderTime, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		alarm = parsed
	}

	zone, resolver, err := s.resolver(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	from := s.orToday(opts.From)
	days := resolver.Between(from, from.AddDays(opts.Days-1))
	doc := s.document(*zone, model.NormalizeLanguage(opts.Language), days, nil)

	content := ics.Generate(doc, ics.Options{Alarm: alarm, Published: true})
	return &ExportResult{
		FileName:    buildFileName(doc, "ics"),
		ContentType: "text/calendar; charset=utf-8",
		Content:     content,
	}, nil
}

// DeviceFeed renders upcoming collections as "<unix>,YYYY-MM-DD:CODE,..." for small displays.
func (s *CalendarService) DeviceFeed(ctx context.Context, zoneID uuid.UUID, days int) (string, error) {
	if days == 0 {
		days = 28
	}
	if days < 1 || days > maxFeedDays {
		return "", fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxFeedDays)
	}
	_, resolver, err := s.resolver(ctx, zoneID)
	if err != nil {
		return "", err
	}
	today := s.Today()

	var b strings.Builder
	fmt.Fprintf(&b, "%d", s.now().Unix())
	for _, day := range resolver.Between(today, today.AddDays(days-1)) {
		seen := make(map[uuid.UUID]struct{}, len(day.GarbageTypes))
		for _, gt := range day.GarbageTypes {
			if _, dup := seen[gt.ID]; dup {
				continue
			}
			seen[gt.ID] = struct{}{}
			fmt.Fprintf(&b, ",%s:%s", day.Date, strings.ToUpper(gt.Code))
		}
	}
	return b.String(), nil
}

func (s *CalendarService) monthDocument(ctx context.Context, zoneID uuid.UUID, anchor schedule.Date, lang string) (*model.CalendarDocument, error) {
	zone, resolver, err := s.resolver(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	anchor = s.orToday(anchor)
	doc := s.document(*zone, model.NormalizeLanguage(lang), resolver.Month(anchor), resolver.Next(s.Today()))
	return &doc, nil
}

func (s *CalendarService) document(zone model.Zone, lang string, days []schedule.CollectionDay, next []schedule.NextCollection) model.CalendarDocument {
	doc := model.CalendarDocument{
		Zone:        zone,
		Language:    lang,
		Days:        make([]model.CalendarEntry, 0, len(days)),
		Upcoming:    make([]model.UpcomingEntry, 0, len(next)),
		GeneratedAt: s.now().In(s.loc),
	}
	for _, day := range days {
		doc.Days = append(doc.Days, model.CalendarEntry{
			Date:         day.Date.In(time.UTC),
			GarbageTypes: day.GarbageTypes,
		})
	}
	if len(days) > 0 {
		doc.From = days[0].Date.In(time.UTC)
		doc.To = days[len(days)-1].Date.In(time.UTC)
	}
	for _, item := range next {
		doc.Upcoming = append(doc.Upcoming, model.UpcomingEntry{
			GarbageType: item.GarbageType,
			Date:        item.NextDate.In(time.UTC),
		})
	}
	return doc
}

func buildFileName(doc model.CalendarDocument, ext string) string {
	zone := sanitizeFileName(doc.Zone.Name)
	if zone == "" {
		zone = doc.Zone.ID.String()
	}
	period := fmt.Sprintf("%s-%s", doc.From.Format("20060102"), doc.To.Format("20060102"))
	return fmt.Sprintf("collections-%s-%s.%s", zone, period, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
