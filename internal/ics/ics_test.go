package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/collection-calendar/internal/model"
)

func testDocument() model.CalendarDocument {
	papel := model.GarbageType{ID: uuid.New(), Code: "papel", NamePT: "Papel e cartão", NameEN: "Paper", ColorHex: "#2563eb"}
	vidro := model.GarbageType{ID: uuid.New(), Code: "vidro", NamePT: "Vidro", NameEN: "Glass"}
	return model.CalendarDocument{
		Zone:        model.Zone{ID: uuid.MustParse("7b0c6a43-8d8e-4b5f-9e1e-3c2f6a9d1b01"), Name: "Centro", NamePT: "Centro, Baixa"},
		Language:    model.LanguagePT,
		GeneratedAt: time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC),
		Days: []model.CalendarEntry{
			{Date: time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC), GarbageTypes: []model.GarbageType{papel, vidro, papel}},
			{Date: time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), GarbageTypes: []model.GarbageType{vidro}},
		},
	}
}

func TestGenerate(t *testing.T) {
	body := string(Generate(testDocument(), Options{Published: true}))

	for _, field := range []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"PRODID:" + ProductID + "\r\n",
		"METHOD:PUBLISH\r\n",
		"X-WR-CALNAME:Centro\\, Baixa\r\n",
		"DTSTART;VALUE=DATE:20250113\r\n",
		"DTEND;VALUE=DATE:20250114\r\n",
		"SUMMARY:Papel e cartão\r\n",
		"UID:20250113-papel-7b0c6a43-8d8e-4b5f-9e1e-3c2f6a9d1b01@collection-calendar\r\n",
		"DTSTAMP:20250110T120000Z\r\n",
		"END:VCALENDAR\r\n",
	} {
		assert.Contains(t, body, field)
	}
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"), "duplicate types on one day collapse")
	assert.NotContains(t, body, "BEGIN:VALARM")
}

func TestGenerateWithAlarm(t *testing.T) {
	alarm, err := ParseAlarm("19:30", 1)
	require.NoError(t, err)

	doc := testDocument()
	doc.Language = model.LanguageEN
	body := string(Generate(doc, Options{Alarm: alarm}))

	assert.Equal(t, 3, strings.Count(body, "BEGIN:VALARM"))
	assert.Contains(t, body, "TRIGGER:-P0DT4H30M\r\n")
	assert.Contains(t, body, "SUMMARY:Paper\r\n")
	assert.NotContains(t, body, "METHOD:PUBLISH")
}

func TestAlarmTrigger(t *testing.T) {
	cases := []struct {
		alarm Alarm
		want  string
	}{
		{Alarm{DaysBefore: 1, Hour: 18}, "-P0DT6H0M"},
		{Alarm{DaysBefore: 2, Hour: 18}, "-P1DT6H0M"},
		{Alarm{DaysBefore: 0, Hour: 7, Minute: 15}, "P0DT7H15M"},
		{Alarm{DaysBefore: 1}, "-P1DT0H0M"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.alarm.Trigger())
	}
}

func TestParseAlarmRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "7", "25:00", "12:60", "ab:cd"} {
		_, err := ParseAlarm(raw, 1)
		assert.Error(t, err, raw)
	}
}
