package model

import "time"

// CalendarDocument is the export-ready view of a zone's collections. Dates are
// midnight UTC and only their calendar components are meaningful.
type CalendarDocument struct {
	Zone        Zone
	Language    string
	From        time.Time
	To          time.Time
	Days        []CalendarEntry
	Upcoming    []UpcomingEntry
	GeneratedAt time.Time
}

type CalendarEntry struct {
	Date         time.Time
	GarbageTypes []GarbageType
}

type UpcomingEntry struct {
	GarbageType GarbageType
	Date        time.Time
}

// CollectedTypes lists the distinct garbage types appearing in the document, in order of first appearance.
func (d CalendarDocument) CollectedTypes() []GarbageType {
	seen := make(map[string]struct{})
	var result []GarbageType
	for _, day := range d.Days {
		for _, gt := range day.GarbageTypes {
			if _, ok := seen[gt.ID.String()]; ok {
				continue
			}
			seen[gt.ID.String()] = struct{}{}
			result = append(result, gt)
		}
	}
	return result
}
