package ics

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nurpe/collection-calendar/internal/model"
)

const (
	ProductID = "-//Collection Calendar//Garbage Collection//PT"
	crlf      = "\r\n"
)

// Alarm fires DaysBefore days ahead of an all-day event at Hour:Minute.
type Alarm struct {
	DaysBefore int
	Hour       int
	Minute     int
}

type Options struct {
	Alarm *Alarm
	// Published marks the output as a subscription feed.
	Published bool
}

func ParseAlarm(hhmm string, daysBefore int) (*Alarm, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid reminder time %q: expected HH:MM", hhmm)
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid reminder time %q", hhmm)
	}
	if daysBefore < 0 {
		return nil, fmt.Errorf("days before must not be negative")
	}
	return &Alarm{DaysBefore: daysBefore, Hour: hour, Minute: minute}, nil
}

// Trigger is the RFC 5545 duration from event start (midnight) to the alarm.
func (a Alarm) Trigger() string {
	total := -a.DaysBefore*24*60 + a.Hour*60 + a.Minute
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	days := total / (24 * 60)
	rest := total % (24 * 60)
	return fmt.Sprintf("%sP%dDT%dH%dM", sign, days, rest/60, rest%60)
}

// Generate renders one all-day VEVENT per garbage type and collection day.
func Generate(doc model.CalendarDocument, opts Options) []byte {
	var buf bytes.Buffer
	zoneName := doc.Zone.DisplayName(doc.Language)
	stamp := doc.GeneratedAt.UTC().Format("20060102T150405Z")

	line(&buf, "BEGIN:VCALENDAR")
	line(&buf, "VERSION:2.0")
	line(&buf, "PRODID:"+ProductID)
	line(&buf, "CALSCALE:GREGORIAN")
	if opts.Published {
		line(&buf, "METHOD:PUBLISH")
		line(&buf, "X-PUBLISHED-TTL:PT12H")
	}
	line(&buf, "X-WR-CALNAME:"+escape(zoneName))

	for _, day := range doc.Days {
		seen := make(map[string]struct{}, len(day.GarbageTypes))
		for _, gt := range day.GarbageTypes {
			if _, dup := seen[gt.Code]; dup {
				continue
			}
			seen[gt.Code] = struct{}{}
			name := gt.DisplayName(doc.Language)

			line(&buf, "BEGIN:VEVENT")
			line(&buf, fmt.Sprintf("UID:%s-%s-%s@collection-calendar", day.Date.Format("20060102"), gt.Code, doc.Zone.ID))
			line(&buf, "DTSTAMP:"+stamp)
			line(&buf, "DTSTART;VALUE=DATE:"+day.Date.Format("20060102"))
			line(&buf, "DTEND;VALUE=DATE:"+day.Date.AddDate(0, 0, 1).Format("20060102"))
			line(&buf, "SUMMARY:"+escape(name))
			line(&buf, "DESCRIPTION:"+escape(fmt.Sprintf("%s - %s", name, zoneName)))
			line(&buf, "LOCATION:"+escape(zoneName))
			line(&buf, "TRANSP:TRANSPARENT")
			if gt.ColorHex != "" {
				line(&buf, "COLOR:"+gt.ColorHex)
			}
			if opts.Alarm != nil {
				line(&buf, "BEGIN:VALARM")
				line(&buf, "ACTION:DISPLAY")
				line(&buf, "DESCRIPTION:"+escape(name))
				line(&buf, "TRIGGER:"+opts.Alarm.Trigger())
				line(&buf, "END:VALARM")
			}
			line(&buf, "END:VEVENT")
		}
	}

	line(&buf, "END:VCALENDAR")
	return buf.Bytes()
}

func line(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteString(crlf)
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

