package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/federation"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

func TestGetSearchablesExport(t *testing.T) {
	store := newFakeStore()
	store.searchables = []domain.Searchable{
		{
			EventURI:   "https://node.example/abc",
			EventURL:   "https://node.example/events/1/party/",
			EventTitle: "Party",
			TZ:         "America/Chicago",
			OriginNode: "https://node.example",
			StartTime:  time.Now().Add(time.Hour),
			EndTime:    time.Now().Add(3 * time.Hour),
		},
		{
			// Ended events stay in the export; peers decide retention.
			EventURI:   "https://node.example/def",
			EventURL:   "https://node.example/events/2/retro/",
			EventTitle: "Retro",
			OriginNode: "https://node.example",
			StartTime:  time.Now().Add(-48 * time.Hour),
			EndTime:    time.Now().Add(-46 * time.Hour),
		},
	}
	handler := NewSearchableHandler(discard(), store)

	req := httptest.NewRequest(http.MethodGet, "/searchables/", nil)
	rec := httptest.NewRecorder()

	handler.GetSearchables(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var records []federation.Record
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("export is not a flat JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].EventURI != "https://node.example/abc" || records[0].TZ != "America/Chicago" {
		t.Errorf("unexpected record: %+v", records[0])
	}
	if records[1].EventURI != "https://node.example/def" {
		t.Errorf("ended event missing from export: %+v", records[1])
	}
}

func TestActivityPubEventsEnvelope(t *testing.T) {
	store := newFakeStore()
	lat, lng := 41.88, -87.63
	store.CreateEvent(context.Background(), domain.Event{
		Name:      "Chicago Social",
		TeamID:    1,
		Team:      &domain.Team{ID: 1, Name: "Chicagoans", CardImgURL: "/media/card.png"},
		Place:     &domain.Place{Name: "The Loop", Latitude: &lat, Longitude: &lng},
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(3 * time.Hour),
	})
	handler := NewActivityPubHandler(discard(), store, store, "https://node.example")

	req := httptest.NewRequest(http.MethodGet, "/activity_pub/events.json", nil)
	rec := httptest.NewRecorder()

	handler.GetEvents(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("cannot decode envelope: %v", err)
	}

	if envelope["@context"] != "https://www.w3.org/ns/activitystreams" {
		t.Errorf("unexpected @context: %v", envelope["@context"])
	}
	if envelope["type"] != "Collection" {
		t.Errorf("unexpected type: %v", envelope["type"])
	}
	if envelope["totalItems"] != float64(1) {
		t.Errorf("unexpected totalItems: %v", envelope["totalItems"])
	}

	items := envelope["items"].([]interface{})
	item := items[0].(map[string]interface{})
	if item["type"] != "Event" {
		t.Errorf("unexpected item type: %v", item["type"])
	}
	group := item["attributedTo"].(map[string]interface{})
	if group["type"] != "Group" || group["name"] != "Chicagoans" {
		t.Errorf("unexpected attributedTo: %v", group)
	}
	location := item["location"].(map[string]interface{})
	if location["type"] != "Place" {
		t.Errorf("unexpected location: %v", location)
	}
	if item["image"] != "https://node.example/media/card.png" {
		t.Errorf("relative image not absolutized: %v", item["image"])
	}
}

func TestActivityPubPlacesEnvelope(t *testing.T) {
	store := newFakeStore()
	store.places = []domain.Place{
		{Name: "Hall A", Address: "1 Main St"},
		{Name: "Hall B"},
	}
	handler := NewActivityPubHandler(discard(), store, store, "https://node.example")

	req := httptest.NewRequest(http.MethodGet, "/activity_pub/places.json", nil)
	rec := httptest.NewRecorder()

	handler.GetPlaces(rec, req)

	var envelope map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("cannot decode envelope: %v", err)
	}
	if envelope["totalItems"] != float64(2) {
		t.Errorf("unexpected totalItems: %v", envelope["totalItems"])
	}
}

func TestICSFeed(t *testing.T) {
	store := newFakeStore()
	for _, name := range []string{"First", "Second"} {
		store.CreateEvent(context.Background(), domain.Event{
			Name:      name,
			TeamID:    1,
			StartTime: time.Now().Add(time.Hour),
			EndTime:   time.Now().Add(2 * time.Hour),
		})
	}
	handler := NewFeedHandler(discard(), store, "https://node.example")

	req := httptest.NewRequest(http.MethodGet, "/events.ics", nil)
	rec := httptest.NewRecorder()

	handler.GetICS(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type: %s", ct)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "BEGIN:VCALENDAR") {
		t.Error("feed is not a VCALENDAR")
	}
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("expected 2 VEVENTs, got %d", got)
	}
	if !strings.Contains(body, "SUMMARY:First") {
		t.Error("missing event summary")
	}
}
