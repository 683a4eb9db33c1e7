// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the client-side state of one research session: a
// state machine driven by a pure reducer, the rotating status ticker shown
// while a request is in flight, and the one-time cold-start notice.
package session

import (
	"strings"
	"time"

	"github.com/pdiddy/web-scout/pkg/types"
)

// StatusInterval is the period between status message changes.
const StatusInterval = 2500 * time.Millisecond

// DefaultErrorMessage is shown when a failure carries no message.
const DefaultErrorMessage = "Research request failed"

// StatusMessages rotate while a request is loading. They are cosmetic and
// do not reflect actual backend progress.
var StatusMessages = []string{
	"Planning research strategy...",
	"Searching the web...",
	"Filtering irrelevant results...",
	"Synthesizing final report...",
}

// Phase is the state machine position.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

// State is an immutable snapshot. Only the fields of the current phase
// are meaningful: StatusIndex while Loading, Result on Success, Message
// on Error.
type State struct {
	Phase       Phase
	Query       string
	StatusIndex int
	Result      *types.ResearchResult
	Message     string
}

// Status returns the current status message, or "" outside Loading.
func (s State) Status() string {
	if s.Phase != Loading || len(StatusMessages) == 0 {
		return ""
	}
	return StatusMessages[s.StatusIndex%len(StatusMessages)]
}

// Event drives the state machine.
type Event interface{ event() }

// Submit starts a request for Query.
type Submit struct{ Query string }

// Tick advances the status message.
type Tick struct{}

// Succeeded delivers the response of the in-flight request.
type Succeeded struct{ Result *types.ResearchResult }

// Failed delivers the error message of the in-flight request.
type Failed struct{ Message string }

// Reset returns to Idle.
type Reset struct{}

func (Submit) event()    {}
func (Tick) event()      {}
func (Succeeded) event() {}
func (Failed) event()    {}
func (Reset) event()     {}

// Reduce returns the state after e. It never mutates s.
//
//   - Submit with a blank query, or while Loading, changes nothing.
//   - Submit from Idle, Success or Error enters Loading at index 0.
//   - Tick advances the index (wrapping) only while Loading.
//   - Succeeded and Failed only complete a Loading state; late
//     deliveries are ignored.
//   - Reset always returns to Idle.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case Submit:
		q := strings.TrimSpace(e.Query)
		if q == "" || s.Phase == Loading {
			return s
		}
		return State{Phase: Loading, Query: q}

	case Tick:
		if s.Phase != Loading {
			return s
		}
		next := s
		next.StatusIndex = (s.StatusIndex + 1) % len(StatusMessages)
		return next

	case Succeeded:
		if s.Phase != Loading {
			return s
		}
		return State{Phase: Success, Query: s.Query, Result: e.Result}

	case Failed:
		if s.Phase != Loading {
			return s
		}
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			msg = DefaultErrorMessage
		}
		return State{Phase: Error, Query: s.Query, Message: msg}

	case Reset:
		return State{}
	}
	return s
}
