// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/database"
	"github.com/tomtom215/insight/internal/ingest"
	"github.com/tomtom215/insight/internal/models"
	"github.com/tomtom215/insight/internal/snapshot"
	ws "github.com/tomtom215/insight/internal/websocket"
)

// onePixelPNG is a valid 1x1 PNG.
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// stack is the production wiring of cmd/server over an in-memory SQLite store.
type stack struct {
	db        *database.DB
	pipeline  *ingest.Pipeline
	rawHub    *ws.Hub
	globalHub *ws.Hub
	server    *httptest.Server
}

func newStack(t *testing.T) *stack {
	t.Helper()

	cfg := testConfig()
	cfg.Database = config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}
	cfg.Snapshot = config.SnapshotConfig{StaticRoot: t.TempDir(), Dir: "snapshots"}
	cfg.Ingest = config.IngestConfig{
		Topic:           "events.ingest.e2e",
		BufferSize:      16,
		RetryCount:      1,
		RetryInterval:   time.Millisecond,
		RetryMaxBackoff: 5 * time.Millisecond,
		CloseTimeout:    time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  time.Second,
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	snaps, err := snapshot.NewStore(cfg.Snapshot)
	if err != nil {
		t.Fatalf("snapshot.NewStore() error = %v", err)
	}

	s := &stack{
		db:        db,
		rawHub:    ws.NewHub(ws.FeedRaw),
		globalHub: ws.NewHub(ws.FeedGlobal),
	}
	processor := ingest.NewProcessor(cfg.Ingest, db, snaps, s.rawHub, s.globalHub)
	s.pipeline = ingest.NewPipeline(cfg.Ingest, processor)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.pipeline.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = s.pipeline.Close()
	})
	waitUntil(t, "ingest pipeline", s.pipeline.IsRunning)

	s.server = httptest.NewServer(NewRouter(NewHandler(cfg, db, s.pipeline, processor, s.rawHub, s.globalHub)))
	t.Cleanup(s.server.Close)
	return s
}

func (s *stack) dial(t *testing.T, path string, hub *ws.Hub) *websocket.Conn {
	t.Helper()
	before := hub.GetClientCount()
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error = %v", path, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	waitUntil(t, path+" registration", func() bool { return hub.GetClientCount() == before+1 })
	return conn
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readJSON(t *testing.T, conn *websocket.Conn, out interface{}) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

func TestEndToEnd_IngestReachesStoreAndBothFeeds(t *testing.T) {
	s := newStack(t)

	prior := &models.Event{LocationID: 1, Type: models.EventCongestion, Factor: "0.1", DT: time.Now(), Status: models.StatusNew}
	if err := s.db.InsertEvent(context.Background(), prior); err != nil {
		t.Fatalf("InsertEvent() error = %v", err)
	}

	raw := s.dial(t, "/ws", s.rawHub)
	global := s.dial(t, "/ws_global", s.globalHub)

	body := `{"location_id":3,"event_type":1,"event_factor":0.9,"snapshot":"` + onePixelPNG + `"}`
	resp, err := http.Post(s.server.URL+"/api", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api status = %d, want 200", resp.StatusCode)
	}

	var note struct {
		Snapshot   string  `json:"snapshot"`
		Factor     float64 `json:"factor"`
		LocationID int64   `json:"location_id"`
		Type       int     `json:"type"`
		DT         string  `json:"dt"`
	}
	readJSON(t, raw, &note)
	if note.LocationID != 3 || note.Type != 1 || note.Factor != 0.9 {
		t.Errorf("raw message = %+v, want location 3 type 1 factor 0.9", note)
	}
	if note.Snapshot != onePixelPNG {
		t.Error("raw message should carry the original base64 snapshot")
	}
	if _, err := time.Parse(models.DisplayTimeLayout, note.DT); err != nil {
		t.Errorf("dt %q not in display layout: %v", note.DT, err)
	}

	var count models.CountNotification
	readJSON(t, global, &count)
	if count.NumEvent != 2 {
		t.Errorf("num_event = %d, want 2", count.NumEvent)
	}

	detail, err := s.db.GetEvent(context.Background(), prior.ID+1)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if detail.Status != models.StatusNew || detail.Factor != "0.9" {
		t.Errorf("stored event = %+v, want status 0 factor 0.9", detail.Event)
	}
	if !strings.HasPrefix(detail.Snapshot, "snapshots/") || !strings.HasSuffix(detail.Snapshot, ".png") {
		t.Fatalf("stored snapshot path = %q, want snapshots/*.png", detail.Snapshot)
	}

	img, err := http.Get(s.server.URL + "/static/" + detail.Snapshot)
	if err != nil {
		t.Fatalf("GET snapshot error = %v", err)
	}
	_ = img.Body.Close()
	if img.StatusCode != http.StatusOK {
		t.Errorf("GET /static/%s status = %d, want 200", detail.Snapshot, img.StatusCode)
	}
}
