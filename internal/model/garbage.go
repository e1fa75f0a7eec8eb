package model

import (
	"strings"

	"github.com/google/uuid"
)

const (
	LanguagePT = "pt"
	LanguageEN = "en"
	LanguageES = "es"
)

// GarbageType is catalog reference data. The resolver never modifies it.
type GarbageType struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	NamePT   string    `json:"name_pt"`
	NameEN   string    `json:"name_en"`
	NameES   string    `json:"name_es"`
	ColorHex string    `json:"color_hex"`
	Icon     string    `json:"icon"`
}

func (g GarbageType) DisplayName(lang string) string {
	return localized(lang, g.NamePT, g.NameEN, g.NameES, g.Code)
}

// CollectionSchedule is one recurring pickup rule for a zone and a garbage type.
// Dates are ISO calendar dates (YYYY-MM-DD); EndDate nil means unbounded.
type CollectionSchedule struct {
	ID            uuid.UUID `json:"id"`
	ZoneID        uuid.UUID `json:"zone_id"`
	GarbageTypeID uuid.UUID `json:"garbage_type_id"`
	DayOfWeek     int       `json:"day_of_week"`
	WeekInterval  int       `json:"week_interval"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	IsActive      bool      `json:"is_active"`
}

// NormalizeLanguage maps a locale such as "en-GB" to a supported language,
// falling back to Portuguese.
func NormalizeLanguage(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(raw, "-_"); i >= 0 {
		raw = raw[:i]
	}
	switch raw {
	case LanguageEN, LanguageES:
		return raw
	default:
		return LanguagePT
	}
}

func localized(lang, pt, en, es, fallback string) string {
	var value string
	switch NormalizeLanguage(lang) {
	case LanguageEN:
		value = en
	case LanguageES:
		value = es
	default:
		value = pt
	}
	if strings.TrimSpace(value) == "" {
		if strings.TrimSpace(pt) != "" {
			return pt
		}
		return fallback
	}
	return value
}
