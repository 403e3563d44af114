package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", ErrNotOwner, KindNotOwner},
		{"wrapped", fmt.Errorf("update: %w", ErrInvalidSchedule), KindInvalidSchedule},
		{"not_published_is_specific", ErrEventNotPublished, KindEventNotPublished},
		{"started_is_specific", ErrEventStarted, KindEventStarted},
		{"persistence", Persistence("find role", errors.New("dial tcp: timeout")), KindPersistenceFailure},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNotPublishedIsNotFound(t *testing.T) {
	assert.ErrorIs(t, ErrEventNotPublished, ErrEventNotFound)
	assert.ErrorIs(t, ErrEventStarted, ErrEventNotFound)
	assert.NotErrorIs(t, ErrEventNotFound, ErrEventNotPublished)
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := Persistence("create registration", cause)

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create registration")
}
