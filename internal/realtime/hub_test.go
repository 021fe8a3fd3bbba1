package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

type countingObserver struct{ n int }

func (o *countingObserver) FeedClientsInc() { o.n++ }
func (o *countingObserver) FeedClientsDec() { o.n-- }

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	obs := &countingObserver{}
	hub := NewSSEHub(logger.Nop()).WithObserver(obs)
	channel := GameChannel(uuid.New())

	clientA := hub.NewSSEClient()
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventLineupPut, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventActionRecorded, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventLineupPut {
		t.Fatalf("first event: want=%s got=%s", SSEEventLineupPut, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventActionRecorded {
		t.Fatalf("second event: want=%s got=%s", SSEEventActionRecorded, got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if hub.Subscribers(channel) != 0 {
		t.Fatalf("closed client still subscribed")
	}

	clientB := hub.NewSSEClient()
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventGameCompleted})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventGameCompleted {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventGameCompleted, got.Event)
	}
	if obs.n != 1 {
		t.Fatalf("observer count: want 1 got %d", obs.n)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	a := hub.NewSSEClient()
	b := hub.NewSSEClient()
	hub.AddChannel(a, GameChannel(uuid.New()))
	other := GameChannel(uuid.New())
	hub.AddChannel(b, other)

	hub.Broadcast(SSEMessage{Channel: other, Event: SSEEventStrategyPosted})
	recvMessage(t, b.Outbound, time.Second)
	select {
	case msg := <-a.Outbound:
		t.Fatalf("client on another game received %s", msg.Event)
	default:
	}
}

func TestSSEHubFullBufferDrops(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	c := hub.NewSSEClient()
	ch := GameChannel(uuid.New())
	hub.AddChannel(c, ch)
	for i := 0; i < cap(c.Outbound)+5; i++ {
		hub.Broadcast(SSEMessage{Channel: ch, Event: SSEEventActionRecorded})
	}
	if len(c.Outbound) != cap(c.Outbound) {
		t.Fatalf("want full buffer, got %d/%d", len(c.Outbound), cap(c.Outbound))
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := GameChannel(uuid.New())
	client := hub.NewSSEClient()
	hub.AddChannel(client, channel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %s", ct)
	}

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventActionRecorded, Data: map[string]any{"play": "KL"}})

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" && len(lines) > 0 {
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 || lines[0] != "event: ActionRecorded" || !strings.Contains(lines[1], `"play":"KL"`) {
		t.Fatalf("unexpected frame: %q", lines)
	}
}
