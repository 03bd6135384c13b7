package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/techagentng/ain/models"
)

func waitForClients(t *testing.T, hub *FeedHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFeedSocketReceivesPublicReports(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.addUser(t, "reporter@example.com", models.RoleUser)

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForClients(t, e.server.Feed, 1)

	e.createReport(t, token, models.CategoryOther, models.VisibilityConfidential)
	id := e.createReport(t, token, models.CategoryTraffic, models.VisibilityPublic)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event models.FeedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatal(err)
	}
	if event.Type != models.FeedEventReportCreated || event.Report.ID != id {
		t.Errorf("event = %+v, want created event for %s", event, id)
	}

	conn.Close()
	waitForClients(t, e.server.Feed, 0)
}

func TestFeedHubClose(t *testing.T) {
	e := newTestEnv(t)
	e.server.Feed.Close()
	e.server.Feed.Close()

	// Publishing after close must not block.
	done := make(chan struct{})
	go func() {
		e.server.Feed.Publish(models.FeedEvent{Type: models.FeedEventStatusChanged})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Close")
	}
	if n := e.server.Feed.ClientCount(); n != 0 {
		t.Errorf("client count after close = %d", n)
	}
}
