package services

import (
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func publishedEvent(id, owner string, startIn time.Duration) domain.Event {
	start := testNow.Add(startIn)
	return domain.Event{
		ID:        id,
		OwnerID:   owner,
		Title:     "Beach clean-up " + id,
		Location:  "Bondi Beach, Sydney",
		Category:  domain.CategoryEnvironment,
		StartTime: start,
		EndTime:   start.Add(3 * time.Hour),
		Capacity:  10,
		Status:    domain.StatusPublished,
	}
}

func validFields(startIn time.Duration) domain.EventFields {
	start := testNow.Add(startIn)
	return domain.EventFields{
		Title:     "Tree planting",
		Location:  "Centennial Park",
		Category:  "environment",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Tags:      []string{"outdoors", "outdoors", " families "},
	}
}
