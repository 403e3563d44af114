package domain

import (
	"fmt"
	"strings"
	"time"
)

type TimeWindow string

const (
	WindowAll   TimeWindow = "all"
	WindowToday TimeWindow = "today"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
)

// ParseTimeWindow accepts the four window names; empty means WindowAll.
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch w := TimeWindow(strings.ToLower(strings.TrimSpace(s))); w {
	case "", WindowAll:
		return WindowAll, nil
	case WindowToday, WindowWeek, WindowMonth:
		return w, nil
	default:
		return "", fmt.Errorf("unknown time window %q", s)
	}
}

// EventFilter describes the optional predicates of the upcoming-events listing.
// Zero-valued fields do not filter.
type EventFilter struct {
	Query    string
	Location string
	Window   TimeWindow
	Tags     []string
}

// Predicate decides whether a listing is kept.
type Predicate func(EventListing) bool

// And keeps a listing only when every predicate keeps it.
func And(preds ...Predicate) Predicate {
	return func(l EventListing) bool {
		for _, p := range preds {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

// MatchText matches q case-insensitively against title, description and
// organizer name.
func MatchText(q string) Predicate {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(l EventListing) bool {
		return strings.Contains(strings.ToLower(l.Title), q) ||
			strings.Contains(strings.ToLower(l.Description), q) ||
			strings.Contains(strings.ToLower(l.OrganizerName), q)
	}
}

// MatchLocation is a case-insensitive substring match on the location.
func MatchLocation(loc string) Predicate {
	loc = strings.ToLower(strings.TrimSpace(loc))
	return func(l EventListing) bool {
		return strings.Contains(strings.ToLower(l.Location), loc)
	}
}

// Bound returns the latest start time w admits relative to now. For "today"
// that is the following midnight in now's location. ok is false when the
// window has no upper bound.
func (w TimeWindow) Bound(now time.Time) (end time.Time, ok bool) {
	switch w {
	case WindowToday:
		y, m, d := now.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()), true
	case WindowWeek:
		return now.Add(7 * 24 * time.Hour), true
	case WindowMonth:
		return now.Add(30 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// MatchWindow keeps events starting inside w relative to now. "today" is the
// calendar day of now in now's location; "week" and "month" are 7 and 30 days.
func MatchWindow(w TimeWindow, now time.Time) Predicate {
	return func(l EventListing) bool {
		start := l.StartTime.In(now.Location())
		end, bounded := w.Bound(now)
		switch {
		case !bounded:
			return true
		case w == WindowToday:
			y1, m1, d1 := start.Date()
			y2, m2, d2 := now.Date()
			return y1 == y2 && m1 == m2 && d1 == d2
		default:
			return !start.Before(now) && !start.After(end)
		}
	}
}

// MatchAnyTag keeps events carrying at least one of tags.
func MatchAnyTag(tags []string) Predicate {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	return func(l EventListing) bool {
		for _, t := range l.Tags {
			if _, ok := want[t]; ok {
				return true
			}
		}
		return false
	}
}

// Predicate builds the conjunction of the filter's non-empty predicates.
func (f EventFilter) Predicate(now time.Time) Predicate {
	var preds []Predicate
	if strings.TrimSpace(f.Query) != "" {
		preds = append(preds, MatchText(f.Query))
	}
	if strings.TrimSpace(f.Location) != "" {
		preds = append(preds, MatchLocation(f.Location))
	}
	if f.Window != "" && f.Window != WindowAll {
		preds = append(preds, MatchWindow(f.Window, now))
	}
	if tags := NormalizeTags(f.Tags); len(tags) > 0 {
		preds = append(preds, MatchAnyTag(tags))
	}
	return And(preds...)
}

// Apply returns the listings kept by the filter, preserving order.
func (f EventFilter) Apply(listings []EventListing, now time.Time) []EventListing {
	keep := f.Predicate(now)
	out := make([]EventListing, 0, len(listings))
	for _, l := range listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
