package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/eventwall/eventwall/internal/model"
	"github.com/eventwall/eventwall/internal/repository"
	"github.com/eventwall/eventwall/internal/service"
)

// memInteractionStore is a minimal in-memory InteractionStore for handler
// tests.
type memInteractionStore struct {
	rows      []*model.Interaction
	insertErr error
}

func (m *memInteractionStore) InsertInteraction(_ context.Context, in *model.Interaction) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.rows = append(m.rows, in)
	return nil
}

func (m *memInteractionStore) CountRecentMatches(_ context.Context, ipHash, uaHash string, typ model.InteractionType, targetKey *string, since time.Time) (int64, error) {
	var count int64
	for _, row := range m.rows {
		if row.IPHash != ipHash || row.UAHash != uaHash || row.Type != typ {
			continue
		}
		if (row.TargetKey == nil) != (targetKey == nil) {
			continue
		}
		if targetKey != nil && *row.TargetKey != *targetKey {
			continue
		}
		if row.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *memInteractionStore) ListInteractions(_ context.Context, filter repository.InteractionFilter) ([]*model.Interaction, error) {
	var out []*model.Interaction
	for _, row := range m.rows {
		if filter.Type != nil && row.Type != *filter.Type {
			continue
		}
		if filter.TargetKey != nil && (row.TargetKey == nil || *row.TargetKey != *filter.TargetKey) {
			continue
		}
		if filter.RequireTarget && row.TargetKey == nil {
			continue
		}
		if filter.Since != nil && !row.CreatedAt.After(*filter.Since) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func newAnalyticsHandler(store *memInteractionStore) *AnalyticsHandler {
	svc := service.NewAnalyticsService(store, "handler-test-salt", nil)
	return NewAnalyticsHandler(svc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestTrack(t *testing.T) {
	store := &memInteractionStore{}
	h := newAnalyticsHandler(store)

	body := `{"type":"event_click","event_id":"event-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics", bytes.NewBufferString(body))
	req.RemoteAddr = "203.0.113.5:4321"
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	h.Track(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["success"] != true {
		t.Error("expected success=true")
	}
	if resp["is_unique"] != true {
		t.Error("expected the first visit to be unique")
	}

	if len(store.rows) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.rows))
	}
	row := store.rows[0]
	if row.TargetKey == nil || *row.TargetKey != "event-1" {
		t.Errorf("expected target event-1, got %v", row.TargetKey)
	}
	if row.IPHash == "203.0.113.5" || row.IPHash == "203.0.113.5:4321" {
		t.Error("raw IP must never be stored")
	}
	if row.UAHash == "Mozilla/5.0" {
		t.Error("raw User-Agent must never be stored")
	}
}

func TestTrack_InvalidType(t *testing.T) {
	h := newAnalyticsHandler(&memInteractionStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics", bytes.NewBufferString(`{"type":"hover"}`))
	rec := httptest.NewRecorder()
	h.Track(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["code"] != "INVALID_TYPE" {
		t.Errorf("expected INVALID_TYPE, got %s", resp["code"])
	}
}

func TestTrack_StoreFailureIsNotAnError(t *testing.T) {
	store := &memInteractionStore{insertErr: fmt.Errorf("connection refused")}
	h := newAnalyticsHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics", bytes.NewBufferString(`{"type":"page_view"}`))
	rec := httptest.NewRecorder()
	h.Track(rec, req)

	// Tracking is best-effort: a write failure must not surface as 5xx
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["success"] != false {
		t.Error("expected success=false when the write fails")
	}
}

func TestReport(t *testing.T) {
	store := &memInteractionStore{}
	now := time.Now().UTC()
	target := "event-1"
	store.rows = []*model.Interaction{
		{ID: "1", Type: model.InteractionPageView, IPHash: "a", UAHash: "b", IsUnique: true, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Type: model.InteractionPageView, IPHash: "a", UAHash: "b", IsUnique: false, CreatedAt: now.Add(-time.Minute)},
		{ID: "3", Type: model.InteractionEventClick, TargetKey: &target, IPHash: "a", UAHash: "b", IsUnique: true, CreatedAt: now.Add(-time.Hour)},
	}
	h := newAnalyticsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	rec := httptest.NewRecorder()
	h.Report(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		PageViews *struct {
			TotalViews  int64 `json:"total_views"`
			UniqueViews int64 `json:"unique_views"`
		} `json:"page_views"`
		EventClicksByEvent []struct {
			EventID     string `json:"event_id"`
			TotalClicks int64  `json:"total_clicks"`
		} `json:"event_clicks_by_event"`
		Timeline []struct {
			Date string `json:"date"`
			Type string `json:"type"`
		} `json:"timeline"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if resp.PageViews == nil || resp.PageViews.TotalViews != 2 || resp.PageViews.UniqueViews != 1 {
		t.Errorf("unexpected page views: %+v", resp.PageViews)
	}
	if len(resp.EventClicksByEvent) != 1 || resp.EventClicksByEvent[0].EventID != "event-1" {
		t.Errorf("unexpected event clicks: %+v", resp.EventClicksByEvent)
	}
	if len(resp.Timeline) == 0 {
		t.Error("expected a timeline for the default scope")
	}
}

func TestReport_QueryErrors(t *testing.T) {
	h := newAnalyticsHandler(&memInteractionStore{})

	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"bad_type", "?type=hover", "INVALID_TYPE"},
		{"bad_period", "?period=soon", "INVALID_PERIOD"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics"+test.query, nil)
			rec := httptest.NewRecorder()
			h.Report(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}

			var resp map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp["code"] != test.wantErr {
				t.Errorf("expected %s, got %s", test.wantErr, resp["code"])
			}
		})
	}
}
