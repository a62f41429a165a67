package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/postgen"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("verify: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{domain.ErrChannelNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: bad", domain.ErrInvalidProfile), http.StatusBadRequest, "invalid_argument"},
		{domain.ErrInvalidSlot, http.StatusBadRequest, "invalid_argument"},
		{postgen.ErrInvalidConfig, http.StatusBadRequest, "invalid_argument"},
		{fmt.Errorf("%w: verify exceeded 5s", domain.ErrTimeout), http.StatusGatewayTimeout, "deadline_exceeded"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{postgen.ErrGenerationFailed, http.StatusBadGateway, "unavailable"},
		{context.Canceled, http.StatusRequestTimeout, "canceled"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		status, code := classify(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("classify(%v) = %d %s, want %d %s", tt.err, status, code, tt.wantStatus, tt.wantCode)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"candidate":"tech_insider"}`},
		{name: "unknown field", body: `{"candidate":"a","extra":1}`, wantErr: true},
		{name: "two objects", body: `{"candidate":"a"}{"candidate":"b"}`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst candidateRequest
			err := decodeJSON(httptest.NewRecorder(), r, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlotRequestDraft(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{date: "2026-10-20"},
		{date: "2026-10-20T18:00:00+02:00"},
		{date: "20/10/2026", wantErr: true},
		{date: "", wantErr: true},
	}

	for _, tt := range tests {
		_, err := slotRequest{Date: tt.date, Price: 100}.draft()
		if (err != nil) != tt.wantErr {
			t.Errorf("draft(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
		}
	}
}
