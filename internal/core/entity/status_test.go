package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusWaiting, true},
		{StatusDraft, StatusReady, true},
		{StatusDraft, StatusDone, true},
		{StatusDraft, StatusCanceled, true},
		{StatusWaiting, StatusReady, true},
		{StatusWaiting, StatusDone, true},
		{StatusWaiting, StatusCanceled, true},
		{StatusWaiting, StatusDraft, false},
		{StatusReady, StatusDone, true},
		{StatusReady, StatusCanceled, true},
		{StatusReady, StatusWaiting, false},
		{StatusDone, StatusDraft, false},
		{StatusDone, StatusCanceled, false},
		{StatusCanceled, StatusDraft, false},
		{StatusCanceled, StatusDone, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusDone.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusWaiting.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, s)

	_, err = ParseStatus("posted")
	require.Error(t, err)
}
