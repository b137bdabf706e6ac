package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	for raw, want := range map[string]TaskStatus{
		"todo":        TaskStatusTodo,
		"in_progress": TaskStatusInProgress,
		"done":        TaskStatusDone,
		"  DONE  ":    TaskStatusDone,
	} {
		got, err := ParseTaskStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "archived", "in-progress", "todo done"} {
		_, err := ParseTaskStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, "raw=%q", raw)
	}
}

func TestParseTaskPriority(t *testing.T) {
	for raw, want := range map[string]TaskPriority{
		"low":    TaskPriorityLow,
		"medium": TaskPriorityMedium,
		"HIGH":   TaskPriorityHigh,
	} {
		got, err := ParseTaskPriority(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseTaskPriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaskEnumValid(t *testing.T) {
	assert.True(t, TaskStatusTodo.Valid())
	assert.True(t, TaskPriorityHigh.Valid())
	assert.False(t, TaskStatus("archived").Valid())
	assert.False(t, TaskPriority("urgent").Valid())
}
