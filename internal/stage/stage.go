// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage defines the error taxonomy shared by the pipeline stages,
// the HTTP API and the clients. Every stage failure is reported as an
// *Error whose Message is stable per Kind, so callers can show it to users
// without inspecting the cause.
package stage

import (
	"errors"
	"fmt"
)

// Kind identifies which part of the system failed.
type Kind string

const (
	KindRequest   Kind = "request"
	KindPlanning  Kind = "planning"
	KindSearch    Kind = "search"
	KindFilter    Kind = "filter"
	KindSynthesis Kind = "synthesis"
	KindTransport Kind = "transport"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrRequest   = errors.New("invalid research request")
	ErrPlanning  = errors.New("research planning failed")
	ErrSearch    = errors.New("web search failed")
	ErrFilter    = errors.New("result filtering failed")
	ErrSynthesis = errors.New("report synthesis failed")
	ErrTransport = errors.New("research request failed")
)

var sentinels = map[Kind]error{
	KindRequest:   ErrRequest,
	KindPlanning:  ErrPlanning,
	KindSearch:    ErrSearch,
	KindFilter:    ErrFilter,
	KindSynthesis: ErrSynthesis,
	KindTransport: ErrTransport,
}

var messages = map[Kind]string{
	KindRequest:   "Invalid research request",
	KindPlanning:  "Research planning failed",
	KindSearch:    "Web search failed",
	KindFilter:    "Result filtering failed",
	KindSynthesis: "Report synthesis failed",
	KindTransport: "Research request failed",
}

// Error is a stage failure with its cause.
type Error struct {
	Kind Kind
	Err  error
}

// New wraps err as a failure of the given kind. A nil err yields an *Error
// whose cause is the kind's sentinel.
func New(kind Kind, err error) *Error {
	if err == nil {
		err = sentinels[kind]
	}
	return &Error{Kind: kind, Err: err}
}

// Errorf formats a cause and wraps it as a failure of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Message returns the stable human-readable message for the kind.
func (e *Error) Message() string {
	if m, ok := messages[e.Kind]; ok {
		return m
	}
	return "Research failed"
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err == sentinels[e.Kind] {
		return e.Message()
	}
	return e.Message() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// MessageOf returns the stable message of the first *Error in err's chain,
// or a generic message.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message()
	}
	return "Research failed"
}
