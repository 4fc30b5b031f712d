package model

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(func() time.Time { return testNow })
	require.NoError(t, err)

	prefix := strconv.FormatInt(testNow.UnixMilli(), 10)
	id := gen()
	assert.True(t, strings.HasPrefix(id, prefix), id)
	assert.Len(t, id, len(prefix)+idSuffixLength)
	for _, r := range strings.TrimPrefix(id, prefix) {
		assert.Contains(t, idAlphabet, string(r))
	}
}

func TestNewIDGenerator_Uniqueness(t *testing.T) {
	gen, err := NewIDGenerator(func() time.Time { return testNow })
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := gen()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
