package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncAndAdd(t *testing.T) {
	s := New()

	s.Inc(TypeConfirmationHeight, DetailInvalidBlock)
	s.Inc(TypeConfirmationHeight, DetailInvalidBlock)
	assert.Equal(t, int64(2), s.Count(TypeConfirmationHeight, DetailInvalidBlock))

	s.Add(TypeConfirmationHeight, DetailBlocksConfirmed, DirIn, 42)
	s.Add(TypeConfirmationHeight, DetailBlocksConfirmed, DirIn, 8)
	assert.Equal(t, int64(50), s.CountDir(TypeConfirmationHeight, DetailBlocksConfirmed, DirIn))

	// directions are independent counters
	assert.Equal(t, int64(0), s.CountDir(TypeConfirmationHeight, DetailBlocksConfirmed, DirOut))
}

func TestRegistryNames(t *testing.T) {
	s := New()
	s.Add(TypeConfirmationHeight, DetailBlocksConfirmed, DirIn, 1)

	found := false
	s.Registry().Each(func(name string, _ interface{}) {
		if name == "confirmation_height/blocks_confirmed/in" {
			found = true
		}
	})
	assert.True(t, found)
}
