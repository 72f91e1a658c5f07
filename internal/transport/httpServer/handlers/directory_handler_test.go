package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers/dto"
)

func TestCreateSeries(t *testing.T) {
	store := newFakeStore()
	store.teams[1] = domain.Team{ID: 1, Name: "NY Gophers", TZ: "America/New_York"}
	handler := NewSeriesHandler(discard(), store, store, store, store)

	body, _ := json.Marshal(dto.CreateSeriesRequest{
		Name:       "Weekly Hack Night",
		TeamID:     1,
		Recurrence: "FREQ=WEEKLY;BYDAY=TU",
		StartTime:  "19:00",
		EndTime:    "21:00",
		FirstDate:  "2026-09-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/series", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateSeries(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SeriesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.TZ != "America/New_York" {
		t.Errorf("expected team timezone, got %q", resp.TZ)
	}
	// 19:00 in New York on 2026-09-01 is 23:00 UTC.
	wantFirst := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	if !resp.FirstTime.Equal(wantFirst) {
		t.Errorf("expected first time %v, got %v", wantFirst, resp.FirstTime)
	}
	if !resp.LastTime.IsZero() {
		t.Errorf("new series must start with zero last time, got %v", resp.LastTime)
	}

	t.Run("invalid recurrence", func(t *testing.T) {
		body, _ := json.Marshal(dto.CreateSeriesRequest{
			Name:       "Broken",
			TeamID:     1,
			Recurrence: "FREQ=BOGUS",
			StartTime:  "19:00",
			EndTime:    "21:00",
			FirstDate:  "2026-09-01",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/series", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.CreateSeries(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown team", func(t *testing.T) {
		body, _ := json.Marshal(dto.CreateSeriesRequest{
			Name:       "Orphan",
			TeamID:     99,
			Recurrence: "FREQ=WEEKLY",
			StartTime:  "19:00",
			EndTime:    "21:00",
			FirstDate:  "2026-09-01",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/series", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.CreateSeries(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGetSeries(t *testing.T) {
	store := newFakeStore()
	store.series[5] = domain.EventSeries{
		ID:         5,
		Name:       "Monthly Meetup",
		TeamID:     1,
		Team:       &domain.Team{ID: 1, TZ: "Europe/Berlin"},
		Recurrence: "FREQ=MONTHLY;BYDAY=1TH",
		StartTime:  time.Date(0, 1, 1, 18, 30, 0, 0, time.UTC),
		EndTime:    time.Date(0, 1, 1, 20, 0, 0, 0, time.UTC),
	}
	handler := NewSeriesHandler(discard(), store, store, store, store)

	mux := routeWithParam(handler.GetSeries, http.MethodGet, "/series/{seriesId}")
	req := httptest.NewRequest(http.MethodGet, "/series/5", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SeriesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.StartTime != "18:30" || resp.TZ != "Europe/Berlin" {
		t.Errorf("unexpected series view: start=%q tz=%q", resp.StartTime, resp.TZ)
	}
}

func TestCreateTeam(t *testing.T) {
	store := newFakeStore()
	handler := NewTeamHandler(discard(), store, store)

	body, _ := json.Marshal(dto.CreateTeamRequest{Name: "Food & Drink Club", TZ: "Europe/Paris"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateTeam(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TeamResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.Slug != "food-and-drink-club" {
		t.Errorf("expected slug from name, got %q", resp.Slug)
	}

	t.Run("invalid access", func(t *testing.T) {
		body, _ := json.Marshal(dto.CreateTeamRequest{Name: "Secret Club", Access: "HIDDEN"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.CreateTeam(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeStore()
	handler := NewProfileHandler(discard(), store)

	seed := func() {
		body, _ := json.Marshal(dto.UpdateProfileRequest{Email: "first@example.com"})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(body))
		handler.UpdateProfile(httptest.NewRecorder(), req)
	}
	seed()

	body, _ := json.Marshal(dto.UpdateProfileRequest{Email: "second@example.com", TZ: "Asia/Tokyo"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.UpdateProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.Email != "second@example.com" || resp.TZ != "Asia/Tokyo" {
		t.Errorf("unexpected profile: %+v", resp)
	}
	if resp.EmailConfirmed {
		t.Error("changing email must reset confirmation")
	}

	t.Run("bad timezone", func(t *testing.T) {
		body, _ := json.Marshal(dto.UpdateProfileRequest{TZ: "Mars/Olympus"})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
