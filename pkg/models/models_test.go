package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowDays(t *testing.T) {
	task := &PendingTask{
		LiveStart: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		LiveEnd:   time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 10, task.WindowDays())

	single := &PendingTask{
		LiveStart: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		LiveEnd:   time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 1, single.WindowDays())
}

func TestWindowDaysAcrossDSTTransition(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Mar 29 through Apr 1 2024 spans the 23-hour spring-forward day; the
	// window is still four calendar days.
	task := &PendingTask{
		LiveStart: time.Date(2024, time.March, 29, 0, 0, 0, 0, berlin),
		LiveEnd:   time.Date(2024, time.April, 1, 0, 0, 0, 0, berlin),
	}
	assert.Equal(t, 4, task.WindowDays())
}

func TestLiveContains(t *testing.T) {
	task := &PendingTask{
		LiveStart: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		LiveEnd:   time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, task.LiveContains(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, task.LiveContains(time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC)))
	assert.False(t, task.LiveContains(time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, task.LiveContains(time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)))
}
