package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name     string
		healthy  bool
		wantCode int
		wantBody string
	}{
		{"up", true, http.StatusOK, `{"status":"UP","component":"outbox-relay"}`},
		{"down", false, http.StatusServiceUnavailable, `{"status":"DOWN","component":"outbox-relay"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			probe("outbox-relay", func() bool { return tt.healthy })(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
