// Package schedule resolves recurring collection rules into concrete dates.
// Everything here is pure: no I/O, no shared state, inputs are never modified.
package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
)

type Mode string

const (
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

type CollectionDay struct {
	Date         Date                `json:"date"`
	GarbageTypes []model.GarbageType `json:"garbage_types"`
}

type NextCollection struct {
	GarbageType model.GarbageType `json:"garbage_type"`
	NextDate    Date              `json:"next_date"`
}

// Resolver holds one zone's compiled snapshot of rules and garbage types.
type Resolver struct {
	rules []Rule
	types map[uuid.UUID]model.GarbageType
}

func NewResolver(schedules []model.CollectionSchedule, types []model.GarbageType) (*Resolver, error) {
	rules, err := Compile(schedules)
	if err != nil {
		return nil, err
	}
	return NewResolverFromRules(rules, types), nil
}

func NewResolverFromRules(rules []Rule, types []model.GarbageType) *Resolver {
	index := make(map[uuid.UUID]model.GarbageType, len(types))
	for _, gt := range types {
		if _, exists := index[gt.ID]; !exists {
			index[gt.ID] = gt
		}
	}
	return &Resolver{
		rules: append([]Rule(nil), rules...),
		types: index,
	}
}

// CollectionsOn returns one garbage type per matching rule, in rule order.
// Rules pointing at an unknown garbage type are skipped.
func (r *Resolver) CollectionsOn(date Date) []model.GarbageType {
	collections := make([]model.GarbageType, 0)
	for _, rule := range r.rules {
		if !rule.matches(date) {
			continue
		}
		gt, ok := r.types[rule.GarbageTypeID]
		if !ok {
			continue
		}
		collections = append(collections, gt)
	}
	return collections
}

// Week covers Monday through Sunday of the week containing anchor.
func (r *Resolver) Week(anchor Date) []CollectionDay {
	start := anchor.StartOfWeek()
	return r.Between(start, start.AddDays(6))
}

func (r *Resolver) Month(anchor Date) []CollectionDay {
	return r.Between(anchor.StartOfMonth(), anchor.EndOfMonth())
}

func (r *Resolver) Expand(anchor Date, mode Mode) []CollectionDay {
	if mode == ModeMonth {
		return r.Month(anchor)
	}
	return r.Week(anchor)
}

// Between evaluates every date from..to inclusive. It returns nil when to is before from.
func (r *Resolver) Between(from, to Date) []CollectionDay {
	if to.Before(from) {
		return nil
	}
	days := make([]CollectionDay, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, CollectionDay{Date: d, GarbageTypes: r.CollectionsOn(d)})
	}
	return days
}

// Next returns, per garbage type with an active rule, the earliest naive next
// date across that type's rules, sorted by date. Ties keep the order in which
// the types are first referenced by the rules.
func (r *Resolver) Next(today Date) []NextCollection {
	order := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	best := make(map[uuid.UUID]Date)

	for _, rule := range r.rules {
		if _, ok := r.types[rule.GarbageTypeID]; !ok {
			continue
		}
		if _, ok := seen[rule.GarbageTypeID]; !ok {
			seen[rule.GarbageTypeID] = struct{}{}
			order = append(order, rule.GarbageTypeID)
		}
		if !rule.Active {
			continue
		}
		candidate := rule.nextAfter(today)
		if current, ok := best[rule.GarbageTypeID]; !ok || candidate.Before(current) {
			best[rule.GarbageTypeID] = candidate
		}
	}

	result := make([]NextCollection, 0, len(best))
	for _, id := range order {
		next, ok := best[id]
		if !ok {
			continue
		}
		result = append(result, NextCollection{GarbageType: r.types[id], NextDate: next})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].NextDate.Before(result[j].NextDate)
	})
	return result
}

func CollectionsOnDate(date Date, schedules []model.CollectionSchedule, types []model.GarbageType) ([]model.GarbageType, error) {
	r, err := NewResolver(schedules, types)
	if err != nil {
		return nil, err
	}
	return r.CollectionsOn(date), nil
}

func ExpandRange(anchor Date, schedules []model.CollectionSchedule, types []model.GarbageType, mode Mode) ([]CollectionDay, error) {
	r, err := NewResolver(schedules, types)
	if err != nil {
		return nil, err
	}
	return r.Expand(anchor, mode), nil
}

func NextOccurrences(today Date, schedules []model.CollectionSchedule, types []model.GarbageType) ([]NextCollection, error) {
	r, err := NewResolver(schedules, types)
	if err != nil {
		return nil, err
	}
	return r.Next(today), nil
}
