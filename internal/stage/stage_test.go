// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageAndIs(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
		message  string
	}{
		{KindRequest, ErrRequest, "Invalid research request"},
		{KindPlanning, ErrPlanning, "Research planning failed"},
		{KindSearch, ErrSearch, "Web search failed"},
		{KindFilter, ErrFilter, "Result filtering failed"},
		{KindSynthesis, ErrSynthesis, "Report synthesis failed"},
		{KindTransport, ErrTransport, "Research request failed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			cause := errors.New("boom")
			err := New(tt.kind, cause)

			assert.Equal(t, tt.message, err.Message())
			assert.Equal(t, tt.message+": boom", err.Error())
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestErrorDoesNotMatchOtherKinds(t *testing.T) {
	err := New(KindFilter, errors.New("overflow"))
	assert.NotErrorIs(t, err, ErrPlanning)
	assert.NotErrorIs(t, err, ErrSynthesis)
}

func TestNewWithNilCause(t *testing.T) {
	err := New(KindSearch, nil)
	assert.Equal(t, "Web search failed", err.Error())
	assert.ErrorIs(t, err, ErrSearch)
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("pipeline: %w", Errorf(KindSynthesis, "empty output"))
	assert.Equal(t, KindSynthesis, KindOf(err))
	assert.Equal(t, "Report synthesis failed", MessageOf(err))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "Research failed", MessageOf(errors.New("plain")))
}
