package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
)

var ErrMalformedRule = errors.New("malformed schedule rule")

// Rule is a CollectionSchedule with its dates parsed.
type Rule struct {
	ID            uuid.UUID
	GarbageTypeID uuid.UUID
	Weekday       time.Weekday
	Interval      int
	Start         Date
	End           *Date
	Active        bool
}

// Compile parses every schedule. One malformed schedule rejects the whole set.
func Compile(schedules []model.CollectionSchedule) ([]Rule, error) {
	rules := make([]Rule, 0, len(schedules))
	for _, s := range schedules {
		rule, err := CompileOne(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func CompileOne(s model.CollectionSchedule) (Rule, error) {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return Rule{}, fmt.Errorf("%w: rule %s: day_of_week %d out of range", ErrMalformedRule, s.ID, s.DayOfWeek)
	}
	if s.WeekInterval < 1 {
		return Rule{}, fmt.Errorf("%w: rule %s: week_interval must be >= 1", ErrMalformedRule, s.ID)
	}
	start, err := ParseDate(s.StartDate)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: rule %s: start_date: %v", ErrMalformedRule, s.ID, err)
	}
	rule := Rule{
		ID:            s.ID,
		GarbageTypeID: s.GarbageTypeID,
		Weekday:       time.Weekday(s.DayOfWeek),
		Interval:      s.WeekInterval,
		Start:         start,
		Active:        s.IsActive,
	}
	if s.EndDate != nil {
		end, err := ParseDate(*s.EndDate)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: rule %s: end_date: %v", ErrMalformedRule, s.ID, err)
		}
		rule.End = &end
	}
	return rule, nil
}

// matches reports whether the rule collects on date. Checks short-circuit in order:
// active and weekday, validity window, recurrence.
func (r Rule) matches(date Date) bool {
	if !r.Active || r.Weekday != date.Weekday() {
		return false
	}
	if date.Before(r.Start) {
		return false
	}
	if r.End != nil && date.After(*r.End) {
		return false
	}
	return r.onRecurrence(date)
}

// onRecurrence has two paths. Fortnightly rules alternate on ISO week-number
// parity, so the cycle resets where a 53-week year ends. Every other interval
// counts whole elapsed weeks since Start. The two disagree across such years
// and must stay separate.
func (r Rule) onRecurrence(date Date) bool {
	if r.Interval == 2 {
		return (date.ISOWeek()-r.Start.ISOWeek())%2 == 0
	}
	weeks := date.DaysSince(r.Start) / 7
	return weeks%r.Interval == 0
}

// nextAfter is plain weekly advancement: the next matching weekday, or a full
// interval ahead when today is that weekday. It ignores the validity window
// and ISO alternation.
func (r Rule) nextAfter(today Date) Date {
	daysUntil := (int(r.Weekday) - int(today.Weekday()) + 7) % 7
	if daysUntil == 0 {
		return today.AddDays(r.Interval * 7)
	}
	return today.AddDays(daysUntil)
}
