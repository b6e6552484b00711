// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/database"
	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/models"
	ws "github.com/tomtom215/insight/internal/websocket"
)

func init() {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
}

type fakeStore struct {
	mu        sync.Mutex
	events    []models.Event
	locations []models.Location
	pingErr   error
	listErr   error
	countErr  error

	lastFilter database.EventFilter
	acked      []int64
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ListEvents(_ context.Context, filter database.EventFilter) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Event
	for _, ev := range s.events {
		if filter.Status != nil && ev.Status != *filter.Status {
			continue
		}
		out = append(out, ev)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) GetEvent(_ context.Context, id int64) (*models.EventDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID == id {
			return &models.EventDetail{Event: ev, LocationName: "Main St", TypeLabel: ev.Type.String()}, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeStore) CountEvents(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.events)), nil
}

func (s *fakeStore) CountEventsByStatus(_ context.Context, status int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	var n int64
	for _, ev := range s.events {
		if ev.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) AcknowledgeEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].Status = models.StatusAcknowledged
			s.acked = append(s.acked, id)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeStore) ListLocations(context.Context) ([]models.Location, error) {
	return s.locations, nil
}

type fakeIngester struct {
	mu        sync.Mutex
	running   bool
	submitErr error
	submitted []*models.IngestRequest
}

func (f *fakeIngester) Submit(_ context.Context, req *models.IngestRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return nil
}

func (f *fakeIngester) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeIngester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

type fakeCounts struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeCounts) BroadcastCount(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeCounts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	cfg     *config.Config
	store   *fakeStore
	ingest  *fakeIngester
	counts  *fakeCounts
	handler *Handler
}

func testConfig() *config.Config {
	return &config.Config{
		WebSocket: config.WebSocketConfig{
			SendBuffer:     16,
			WriteWait:      time.Second,
			PongWait:       time.Minute,
			MaxMessageSize: 4096,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newFixture() *fixture {
	f := &fixture{
		cfg: testConfig(),
		store: &fakeStore{
			events: []models.Event{
				{ID: 3, LocationID: 7, Type: models.EventAccident, Factor: "12", Status: models.StatusNew},
				{ID: 2, LocationID: 7, Type: models.EventCongestion, Factor: "0.5", Status: models.StatusAcknowledged},
				{ID: 1, LocationID: 8, Type: models.EventSuspicious, Factor: "high", Status: models.StatusNew},
			},
			locations: []models.Location{{ID: 7, Name: "Main St"}},
		},
		ingest: &fakeIngester{running: true},
		counts: &fakeCounts{},
	}
	f.handler = NewHandler(f.cfg, f.store, f.ingest, f.counts, ws.NewHub(ws.FeedRaw), ws.NewHub(ws.FeedGlobal))
	return f
}
