package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	pollInterval = 4 * time.Second
	// window for matching an optimistic entry against the server's copy;
	// the synthetic id never matches, content plus rough send time does
	reconcileWindow = 15 * time.Second
)

// MessagePoller keeps one teacher-parent thread fresh without a push
// channel: an immediate fetch on selection, a wholesale re-fetch every 4
// seconds while selected, and optimistic inserts on send that the next
// poll reconciles away.
type MessagePoller struct {
	api      *Client
	interval time.Duration
	onUpdate func([]Message)
	onError  func(error)

	mu          sync.Mutex
	counterpart uint
	server      []Message
	pending     []Message
	lastApplied uint64
	nextSeq     uint64
	cancel      context.CancelFunc
	closed      bool
}

type PollerOption func(*MessagePoller)

// WithInterval overrides the 4s poll cadence, for tests.
func WithInterval(d time.Duration) PollerOption {
	return func(p *MessagePoller) { p.interval = d }
}

func WithOnError(fn func(error)) PollerOption {
	return func(p *MessagePoller) { p.onError = fn }
}

// NewMessagePoller wires the poller to the transport. onUpdate receives the
// merged thread (server copy plus unconfirmed optimistic entries) after
// every change.
func NewMessagePoller(api *Client, onUpdate func([]Message), opts ...PollerOption) *MessagePoller {
	p := &MessagePoller{
		api:      api,
		interval: pollInterval,
		onUpdate: onUpdate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Select switches to a counterpart: the thread is fetched immediately and
// then re-fetched on the poll interval until Deselect or Close.
func (p *MessagePoller) Select(counterpartID uint) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.counterpart = counterpartID
	p.server = nil
	p.pending = nil
	p.mu.Unlock()

	go p.loop(ctx, counterpartID)
}

// Deselect stops polling and drops the thread.
func (p *MessagePoller) Deselect() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.counterpart = 0
	p.server = nil
	p.pending = nil
	p.mu.Unlock()
}

// Close tears the poller down; all in-flight results are discarded.
func (p *MessagePoller) Close() {
	p.mu.Lock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
}

func (p *MessagePoller) loop(ctx context.Context, counterpartID uint) {
	p.fetch(ctx, counterpartID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx, counterpartID)
		}
	}
}

// fetch grabs the whole thread and applies it under a sequence fence:
// responses that resolve after a newer one has been applied are discarded,
// so an out-of-order arrival can never roll the thread backwards.
func (p *MessagePoller) fetch(ctx context.Context, counterpartID uint) {
	p.mu.Lock()
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	messages, err := p.api.Messages(ctx, counterpartID)
	if err != nil {
		if p.onError != nil && ctx.Err() == nil {
			p.onError(err)
		}
		return
	}

	p.mu.Lock()
	if p.closed || p.counterpart != counterpartID || seq <= p.lastApplied {
		p.mu.Unlock()
		return
	}
	p.lastApplied = seq
	p.server = messages
	p.pending = unconfirmed(p.pending, messages)
	merged := p.mergedLocked()
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(merged)
	}
}

// unconfirmed keeps only the optimistic entries the server copy does not
// cover yet. Matching is by content and approximate timestamp, never by the
// synthetic id.
func unconfirmed(pending, server []Message) []Message {
	if len(pending) == 0 {
		return nil
	}
	kept := pending[:0]
	for _, pm := range pending {
		matched := false
		for _, sm := range server {
			if sm.Content == pm.Content && absDuration(sm.CreatedAt.Sub(pm.CreatedAt)) <= reconcileWindow {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, pm)
		}
	}
	return kept
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func (p *MessagePoller) mergedLocked() []Message {
	merged := make([]Message, 0, len(p.server)+len(p.pending))
	merged = append(merged, p.server...)
	merged = append(merged, p.pending...)
	return merged
}

// Thread returns the current merged view of the selected thread.
func (p *MessagePoller) Thread() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mergedLocked()
}

// Send inserts an optimistic pending message, posts it, and on success
// triggers an immediate out-of-cycle refresh. On failure the placeholder is
// removed and the error surfaces to the caller; no retry.
func (p *MessagePoller) Send(ctx context.Context, content string) error {
	p.mu.Lock()
	if p.closed || p.counterpart == 0 {
		p.mu.Unlock()
		return context.Canceled
	}
	counterpartID := p.counterpart
	placeholder := Message{
		ID:          uuid.New().String(),
		RecipientID: counterpartID,
		Content:     content,
		CreatedAt:   time.Now(),
		Pending:     true,
	}
	p.pending = append(p.pending, placeholder)
	merged := p.mergedLocked()
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(merged)
	}

	if _, err := p.api.SendMessage(ctx, counterpartID, content); err != nil {
		p.mu.Lock()
		kept := p.pending[:0]
		for _, m := range p.pending {
			if m.ID != placeholder.ID {
				kept = append(kept, m)
			}
		}
		p.pending = kept
		merged := p.mergedLocked()
		p.mu.Unlock()

		if p.onUpdate != nil {
			p.onUpdate(merged)
		}
		return err
	}

	p.fetch(ctx, counterpartID)
	return nil
}
