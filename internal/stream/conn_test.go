package stream

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func (f *fakeTransport) writtenTypes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.types))
	copy(out, f.types)
	return out
}

func (f *fakeTransport) deadlineCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deadlines
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestNewConnDerivesPingPeriod(t *testing.T) {
	c := NewConn(nil, uuid.Nil, "", 8, time.Second, time.Minute)
	if c.writeWait != time.Second {
		t.Fatalf("writeWait = %v", c.writeWait)
	}
	if c.pingPeriod != 54*time.Second {
		t.Fatalf("pingPeriod = %v, want 54s", c.pingPeriod)
	}

	idle := NewConn(nil, uuid.Nil, "", 8, 0, 0)
	if idle.writeWait != 0 || idle.pingPeriod != 0 {
		t.Fatalf("zero config should disable deadlines, got %v/%v", idle.writeWait, idle.pingPeriod)
	}
}

func TestWritePumpAppliesWriteDeadline(t *testing.T) {
	ws := &fakeTransport{}
	c := newConnWithTransport(ws, uuid.New(), "", 4)
	c.writeWait = time.Second

	c.trySend([]byte(`{"stream":"list"}`))
	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()

	waitFor(t, func() bool { return len(ws.writtenTypes()) >= 1 })
	if err := c.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	<-done

	if got := ws.writtenTypes()[0]; got != websocket.TextMessage {
		t.Fatalf("first frame type = %d, want text", got)
	}
	if ws.deadlineCount() < 1 {
		t.Fatal("expected a write deadline before each frame")
	}
}

func TestWritePumpSendsKeepalivePings(t *testing.T) {
	ws := &fakeTransport{}
	c := newConnWithTransport(ws, uuid.New(), "", 4)
	c.pingPeriod = 5 * time.Millisecond

	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()

	waitFor(t, func() bool {
		for _, mt := range ws.writtenTypes() {
			if mt == websocket.PingMessage {
				return true
			}
		}
		return false
	})
	if err := c.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	<-done
}
