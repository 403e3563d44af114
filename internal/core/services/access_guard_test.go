package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/mocks"
)

func TestAccessGuard_Authorize(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		seed     func(*mocks.Store)
		required domain.Role
		want     domain.Decision
	}{
		{
			name:     "anonymous_volunteer_resource_goes_to_volunteer_login",
			required: domain.RoleVolunteer,
			want:     domain.Decision{Outcome: domain.OutcomeRedirect, Location: "/auth/login", Reason: domain.KindNotAuthenticated},
		},
		{
			name:     "anonymous_organizer_resource_goes_to_organizer_login",
			required: domain.RoleOrganizer,
			want:     domain.Decision{Outcome: domain.OutcomeRedirect, Location: "/auth/org-login", Reason: domain.KindNotAuthenticated},
		},
		{
			name:     "matching_role_is_allowed",
			identity: "org-1",
			seed:     func(s *mocks.Store) { s.SeedRole("org-1", domain.RoleOrganizer) },
			required: domain.RoleOrganizer,
			want:     domain.Decision{Outcome: domain.OutcomeAllow, Role: domain.RoleOrganizer},
		},
		{
			name:     "organizer_on_volunteer_dashboard_is_sent_to_org_dashboard",
			identity: "org-1",
			seed:     func(s *mocks.Store) { s.SeedRole("org-1", domain.RoleOrganizer) },
			required: domain.RoleVolunteer,
			want: domain.Decision{
				Outcome: domain.OutcomeRedirect, Location: "/org/dashboard",
				Role: domain.RoleOrganizer, Reason: domain.KindRoleMismatch,
			},
		},
		{
			name:     "volunteer_on_org_dashboard_is_sent_to_volunteer_dashboard",
			identity: "vol-1",
			seed:     func(s *mocks.Store) { s.SeedRole("vol-1", domain.RoleVolunteer) },
			required: domain.RoleOrganizer,
			want: domain.Decision{
				Outcome: domain.OutcomeRedirect, Location: "/dashboard",
				Role: domain.RoleVolunteer, Reason: domain.KindRoleMismatch,
			},
		},
		{
			name:     "missing_role_heals_to_volunteer",
			identity: "new-1",
			required: domain.RoleVolunteer,
			want:     domain.Decision{Outcome: domain.OutcomeAllow, Role: domain.RoleVolunteer},
		},
		{
			name:     "resolution_failure_fails_closed",
			identity: "vol-1",
			seed:     func(s *mocks.Store) { s.FindRoleError = errors.New("timeout") },
			required: domain.RoleVolunteer,
			want:     domain.Decision{Outcome: domain.OutcomeRedirect, Location: "/auth/login", Reason: domain.KindNotAuthenticated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			if tt.seed != nil {
				tt.seed(store)
			}
			metrics := mocks.NewMockMetrics()
			guard := NewAccessGuard(NewRoleResolver(store, nil), metrics)

			got := guard.Authorize(context.Background(), tt.identity, tt.required)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Outcome == domain.OutcomeAllow, got.Allowed())

			label := string(tt.want.Outcome)
			if tt.want.Reason != "" {
				label = string(tt.want.Reason)
			}
			assert.Equal(t, 1, metrics.Count("access:"+string(tt.required)+":"+label))
		})
	}
}
