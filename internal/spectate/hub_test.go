package spectate

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/world"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	return conn
}

func runningWorld() *world.World {
	w := world.New(config.Default(), 3, 0)
	var in core.Input
	in.Hold(core.IntentRight)
	for i := int64(1); i <= 30; i++ {
		w.Tick(i*16, 16*time.Millisecond, in)
	}
	return w
}

func TestHubBroadcastsSnapshots(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialWS(t, srv.URL)
	defer conn.Close()
	waitFor(t, "spectator to register", func() bool { return hub.Count() == 1 })

	w := runningWorld()
	want := w.Snapshot()
	hub.Publish(want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("message type = %d, expected binary", msgType)
	}

	var got world.Snapshot
	if err := msgpack.Unmarshal(raw, &got); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if got.Tick != want.Tick || got.Score != want.Score || len(got.Entities) != len(want.Entities) {
		t.Errorf("snapshot = tick %d score %d entities %d, expected tick %d score %d entities %d",
			got.Tick, got.Score, len(got.Entities), want.Tick, want.Score, len(want.Entities))
	}
	if got.Player.X != want.Player.X {
		t.Errorf("Player.X = %v, expected %v", got.Player.X, want.Player.X)
	}

	conn.Close()
	waitFor(t, "spectator to unregister", func() bool { return hub.Count() == 0 })
}

func TestPublishWithoutSpectators(t *testing.T) {
	hub := NewHub(nil)
	// Nobody is running the hub; Publish must still return.
	hub.Publish(runningWorld().Snapshot())
}

func TestServerStartShutdown(t *testing.T) {
	hub := NewHub(nil)
	s := NewServer("127.0.0.1:0", hub)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	conn := dialWS(t, "http://"+s.Addr()+"/ws")
	defer conn.Close()
	waitFor(t, "spectator to register", func() bool { return hub.Count() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	waitFor(t, "hub to drop spectators", func() bool { return hub.Count() == 0 })
}
