package genclient_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/georgesriver/spydus-assistant/internal/genclient"
)

func TestBackoff_DoublesFromInitialDelay(t *testing.T) {
	b := genclient.NewBackoff(5, time.Second)

	var delays []time.Duration
	for b.Next() {
		delay, ok := b.Failed()
		if !ok {
			break
		}
		delays = append(delays, delay)
	}

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
	assert.Equal(t, 5, b.Attempts())
}

func TestBackoff_NeverExceedsCeiling(t *testing.T) {
	b := genclient.NewBackoff(3, time.Millisecond)

	for b.Next() {
		b.Failed()
	}

	assert.Equal(t, 3, b.Attempts())
	assert.False(t, b.Next())
	assert.Equal(t, 3, b.Attempts())
}

func TestBackoff_Defaults(t *testing.T) {
	b := genclient.NewBackoff(0, 0)

	assert.True(t, b.Next())
	delay, ok := b.Failed()
	assert.True(t, ok)
	assert.Equal(t, genclient.DefaultInitialDelay, delay)

	n := 1
	for b.Next() {
		n++
	}
	assert.Equal(t, genclient.DefaultMaxAttempts, n)
}
