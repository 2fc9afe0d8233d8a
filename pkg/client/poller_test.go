package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// threadServer serves a mutable message list and records sends.
type threadServer struct {
	mu       sync.Mutex
	messages []Message
	fails    bool
	sends    int
}

func (s *threadServer) set(messages []Message) {
	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()
}

func (s *threadServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/teachers/messages" {
			http.NotFound(w, r)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, s.messages)
		case http.MethodPost:
			if s.fails {
				writeEnvelope(w, http.StatusInternalServerError, nil)
				return
			}
			var req struct {
				ParentID uint   `json:"parentId"`
				Content  string `json:"content"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			msg := Message{
				ID:          "srv-msg",
				RecipientID: req.ParentID,
				SenderRole:  "teacher",
				Content:     req.Content,
				CreatedAt:   time.Now(),
			}
			s.messages = append(s.messages, msg)
			s.sends++
			writeEnvelope(w, http.StatusCreated, msg)
		}
	}
}

func TestSelectFetchesImmediately(t *testing.T) {
	ts := &threadServer{}
	ts.set([]Message{
		{ID: "m1", Content: "مرحبا", CreatedAt: time.Now()},
		{ID: "m2", Content: "أهلا", CreatedAt: time.Now()},
	})
	srv := httptest.NewServer(ts.handler())
	defer srv.Close()

	var got atomic.Value
	p := NewMessagePoller(New(srv.URL), func(msgs []Message) { got.Store(msgs) },
		WithInterval(time.Hour)) // only the immediate fetch
	defer p.Close()

	p.Select(7)
	waitFor(t, "initial fetch", func() bool {
		msgs, _ := got.Load().([]Message)
		return len(msgs) == 2
	})

	if len(p.Thread()) != 2 {
		t.Errorf("Thread len = %d, want 2", len(p.Thread()))
	}
}

func TestPollingPicksUpNewMessages(t *testing.T) {
	ts := &threadServer{}
	ts.set([]Message{{ID: "m1", Content: "a", CreatedAt: time.Now()}})
	srv := httptest.NewServer(ts.handler())
	defer srv.Close()

	p := NewMessagePoller(New(srv.URL), nil, WithInterval(25*time.Millisecond))
	defer p.Close()

	p.Select(7)
	waitFor(t, "initial thread", func() bool { return len(p.Thread()) == 1 })

	ts.set([]Message{
		{ID: "m1", Content: "a", CreatedAt: time.Now()},
		{ID: "m2", Content: "b", CreatedAt: time.Now()},
	})
	waitFor(t, "poll to pick up the new message", func() bool { return len(p.Thread()) == 2 })
}

func TestDeselectStopsPolling(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeEnvelope(w, http.StatusOK, []Message{})
	}))
	defer srv.Close()

	p := NewMessagePoller(New(srv.URL), nil, WithInterval(25*time.Millisecond))
	defer p.Close()

	p.Select(7)
	waitFor(t, "polling to start", func() bool { return atomic.LoadInt32(&hits) >= 2 })

	p.Deselect()
	time.Sleep(60 * time.Millisecond) // drain anything already in flight
	settled := atomic.LoadInt32(&hits)
	time.Sleep(150 * time.Millisecond)
	if n := atomic.LoadInt32(&hits); n != settled {
		t.Errorf("polling continued after deselect: %d -> %d", settled, n)
	}
	if len(p.Thread()) != 0 {
		t.Error("thread kept after deselect")
	}
}

func TestSendOptimisticThenReconciled(t *testing.T) {
	ts := &threadServer{}
	srv := httptest.NewServer(ts.handler())
	defer srv.Close()

	var sawPending atomic.Bool
	p := NewMessagePoller(New(srv.URL), func(msgs []Message) {
		for _, m := range msgs {
			if m.Pending {
				sawPending.Store(true)
			}
		}
	}, WithInterval(time.Hour))
	defer p.Close()

	p.Select(7)
	waitFor(t, "initial empty fetch", func() bool { return p.Thread() != nil })

	if err := p.Send(context.Background(), "سلام"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if !sawPending.Load() {
		t.Error("optimistic pending entry never surfaced")
	}

	// after the post-send refresh the synthetic entry must be superseded by
	// the server copy, matched on content and time, not id
	waitFor(t, "reconciliation", func() bool {
		thread := p.Thread()
		return len(thread) == 1 && !thread[0].Pending && thread[0].ID == "srv-msg"
	})
}

func TestSendFailureRollsBackPlaceholder(t *testing.T) {
	ts := &threadServer{fails: true}
	srv := httptest.NewServer(ts.handler())
	defer srv.Close()

	p := NewMessagePoller(New(srv.URL), nil, WithInterval(time.Hour))
	defer p.Close()

	p.Select(7)
	waitFor(t, "initial fetch", func() bool { return p.Thread() != nil })

	if err := p.Send(context.Background(), "lost"); err == nil {
		t.Fatal("Send succeeded against a failing server")
	}
	if n := len(p.Thread()); n != 0 {
		t.Errorf("placeholder survived the failed send: %d messages", n)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	firstGate := make(chan struct{})
	var served int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&served, 1)
		if n == 1 {
			// hold the first response until a newer one has been applied
			<-firstGate
			writeEnvelope(w, http.StatusOK, []Message{{ID: "old", Content: "old"}})
			return
		}
		writeEnvelope(w, http.StatusOK, []Message{
			{ID: "new-1", Content: "x"},
			{ID: "new-2", Content: "y"},
		})
	}))
	defer srv.Close()

	p := NewMessagePoller(New(srv.URL), nil, WithInterval(time.Hour))
	defer p.Close()

	p.mu.Lock()
	p.counterpart = 7
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.fetch(context.Background(), 7) // seq 1, delayed by the server
		close(done)
	}()
	waitFor(t, "first fetch in flight", func() bool { return atomic.LoadInt32(&served) == 1 })

	p.fetch(context.Background(), 7) // seq 2, applied first
	if len(p.Thread()) != 2 {
		t.Fatalf("thread = %d messages after second fetch, want 2", len(p.Thread()))
	}

	close(firstGate)
	<-done

	// the late seq-1 response must be fenced off, not roll the thread back
	thread := p.Thread()
	if len(thread) != 2 || thread[0].ID != "new-1" {
		t.Errorf("stale response overwrote the thread: %+v", thread)
	}
}

func TestResultsDroppedAfterClose(t *testing.T) {
	gate := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-gate
		writeEnvelope(w, http.StatusOK, []Message{{ID: "late", Content: "late"}})
	}))
	defer srv.Close()

	var updates int32
	p := NewMessagePoller(New(srv.URL), func([]Message) { atomic.AddInt32(&updates, 1) },
		WithInterval(time.Hour))

	p.Select(7)
	time.Sleep(50 * time.Millisecond) // let the initial fetch reach the server
	p.Close()
	close(gate)

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&updates); n != 0 {
		t.Errorf("%d updates delivered after Close", n)
	}
}

func TestUnconfirmedMatchesByContentAndTime(t *testing.T) {
	now := time.Now()
	pending := []Message{
		{ID: "tmp-1", Content: "hello", CreatedAt: now, Pending: true},
		{ID: "tmp-2", Content: "still mine", CreatedAt: now, Pending: true},
	}
	server := []Message{
		{ID: "srv-9", Content: "hello", CreatedAt: now.Add(2 * time.Second)},
		{ID: "srv-10", Content: "still mine", CreatedAt: now.Add(-time.Hour)}, // same text, wrong era
	}

	kept := unconfirmed(pending, server)
	if len(kept) != 1 || kept[0].ID != "tmp-2" {
		t.Errorf("unconfirmed = %+v, want only tmp-2", kept)
	}
}
