// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/pdiddy/web-scout/internal/llm"
)

// Reply is one scripted answer.
type Reply struct {
	Text string
	Err  error
}

// Fake answers each call from a per-call script. Calls beyond the script
// repeat its last entry. A call name with no script returns an empty text.
type Fake struct {
	mu      sync.Mutex
	script  map[string][]Reply
	history []llm.Request
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{script: make(map[string][]Reply)}
}

// On appends replies for the given call name and returns f for chaining.
func (f *Fake) On(call string, replies ...Reply) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script[call] = append(f.script[call], replies...)
	return f
}

// Text is shorthand for On(call, Reply{Text: text}).
func (f *Fake) Text(call, text string) *Fake {
	return f.On(call, Reply{Text: text})
}

// Fail is shorthand for On(call, Reply{Err: err}).
func (f *Fake) Fail(call string, err error) *Fake {
	return f.On(call, Reply{Err: err})
}

// Complete records req and returns the next scripted reply.
func (f *Fake) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, req)

	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}

	replies := f.script[req.Call]
	if len(replies) == 0 {
		return llm.Response{}, nil
	}
	r := replies[0]
	if len(replies) > 1 {
		f.script[req.Call] = replies[1:]
	}
	if r.Err != nil {
		return llm.Response{}, r.Err
	}
	return llm.Response{Text: r.Text}, nil
}

// Calls returns the requests received so far, optionally restricted to one call name.
func (f *Fake) Calls(call string) []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []llm.Request
	for _, r := range f.history {
		if call == "" || r.Call == call {
			out = append(out, r)
		}
	}
	return out
}
