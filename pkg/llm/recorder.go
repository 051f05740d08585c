package llm

import "sync"

// Exchange is one prompt/response pair captured for diagnostics.
type Exchange struct {
	Prompt   string
	Response string
}

// ExchangeRecorder keeps a bounded ring of recent prompt/response pairs for
// debugging. It is a diagnostic aid only and is unrelated to the persisted
// conversation-turn log, which is the audit record.
type ExchangeRecorder struct {
	mu       sync.Mutex
	buf      []Exchange
	capacity int
	next     int
	full     bool
}

// NewExchangeRecorder creates a recorder holding at most capacity exchanges.
func NewExchangeRecorder(capacity int) *ExchangeRecorder {
	if capacity <= 0 {
		capacity = 50
	}
	return &ExchangeRecorder{
		buf:      make([]Exchange, capacity),
		capacity: capacity,
	}
}

// Record stores an exchange, evicting the oldest entry when full.
func (r *ExchangeRecorder) Record(prompt, response string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = Exchange{Prompt: prompt, Response: response}
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
}

// Recent returns the captured exchanges, oldest first.
func (r *ExchangeRecorder) Recent() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]Exchange, r.next)
		copy(out, r.buf[:r.next])
		return out
	}

	out := make([]Exchange, 0, r.capacity)
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}
