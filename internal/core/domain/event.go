package domain

import (
	"strings"
	"time"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	}
	return false
}

type Category string

const (
	CategoryEnvironment Category = "environment"
	CategoryEducation   Category = "education"
	CategoryCommunity   Category = "community"
	CategoryHealth      Category = "health"
	CategoryAnimals     Category = "animals"
	CategoryArts        Category = "arts"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

// ParseCategory maps unknown or empty categories to CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryEnvironment, CategoryEducation, CategoryCommunity, CategoryHealth,
		CategoryAnimals, CategoryArts, CategorySports:
		return c
	}
	return CategoryOther
}

// DefaultCapacity applies when an event is created without a capacity.
const DefaultCapacity = 10

type Event struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_identity_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Location    string      `json:"location"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Capacity    int         `json:"capacity"`
	Status      EventStatus `json:"status"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// EventFields carries the caller-supplied part of an event. A zero Capacity
// means "not provided".
type EventFields struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Location    string      `json:"location"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Capacity    int         `json:"capacity"`
	Status      EventStatus `json:"status"`
	Tags        []string    `json:"tags"`
}

// ValidateSchedule enforces end > start and start >= now.
func ValidateSchedule(start, end, now time.Time) error {
	if !end.After(start) {
		return ErrInvalidSchedule
	}
	if start.Before(now) {
		return ErrScheduleInPast
	}
	return nil
}

// EventListing is an event as shown to volunteers and organizers, enriched
// with the owning organization's name and the live registration count.
type EventListing struct {
	Event
	OrganizerName     string `json:"organizer_name"`
	RegistrationCount int    `json:"registration_count"`
}

// NormalizeTags trims tags and drops empties and duplicates, keeping first
// occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
