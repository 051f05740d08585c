package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRecorderUnderCapacity(t *testing.T) {
	r := NewExchangeRecorder(5)

	r.Record("p1", "r1")
	r.Record("p2", "r2")

	recent := r.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, Exchange{Prompt: "p1", Response: "r1"}, recent[0])
	assert.Equal(t, Exchange{Prompt: "p2", Response: "r2"}, recent[1])
}

func TestExchangeRecorderEvictsOldest(t *testing.T) {
	r := NewExchangeRecorder(3)

	for i := 1; i <= 5; i++ {
		r.Record(fmt.Sprintf("p%d", i), fmt.Sprintf("r%d", i))
	}

	recent := r.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "p3", recent[0].Prompt)
	assert.Equal(t, "p4", recent[1].Prompt)
	assert.Equal(t, "p5", recent[2].Prompt)
}

func TestExchangeRecorderDefaultCapacity(t *testing.T) {
	r := NewExchangeRecorder(0)

	for i := 0; i < 60; i++ {
		r.Record(fmt.Sprintf("p%d", i), "r")
	}

	assert.Len(t, r.Recent(), 50)
}

func TestExchangeRecorderEmpty(t *testing.T) {
	r := NewExchangeRecorder(3)
	assert.Empty(t, r.Recent())
}
