package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTrackerAcceptsNewestGeneration(t *testing.T) {
	var tr loadTracker
	gen := tr.next()
	assert.True(t, tr.accept(gen))
}

func TestLoadTrackerDiscardsSupersededLoad(t *testing.T) {
	var tr loadTracker

	// First photo is selected, its decode is slow.
	slow := tr.next()

	// User switches to a second photo before the first decode finishes.
	current := tr.next()

	// The slow result arrives late: it must be discarded, and the result
	// for the current selection accepted.
	assert.False(t, tr.accept(slow), "superseded decode must not replace the current preview")
	assert.True(t, tr.accept(current))
}

func TestLoadTrackerGenerationsAreDistinct(t *testing.T) {
	var tr loadTracker
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		gen := tr.next()
		require.False(t, seen[gen])
		seen[gen] = true
	}
	// Only the most recent request is live.
	for gen := range seen {
		assert.Equal(t, gen == tr.gen, tr.accept(gen))
	}
}

func TestLoadTrackerZeroValueAcceptsNoIssuedGeneration(t *testing.T) {
	// Generations start at 1, so a result can never match a tracker that
	// has not issued one.
	var tr loadTracker
	assert.False(t, tr.accept(1))
}
