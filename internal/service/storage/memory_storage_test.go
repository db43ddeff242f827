package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageSetGetDelete(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage[string, int]()

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", 1)
	s.Set("b", 2)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, s.Count())

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, 1, s.Count())
}

func TestMemoryStorageDirtyTracking(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	dirty := s.GetDirty()
	assert.Len(t, dirty, 2)

	s.ClearDirty([]string{"a"})
	dirty = s.GetDirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, 2, dirty["b"])

	// Updating a flushed key marks it dirty again
	s.Set("a", 3)
	assert.Len(t, s.GetDirty(), 2)

	// Deleted keys never show up as dirty
	s.Delete("b")
	dirty = s.GetDirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, 3, dirty["a"])
}

func TestMemoryStorageGetAll(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage[int, string]()
	s.Set(1, "one")
	s.Set(2, "two")

	all := s.GetAll()
	assert.Equal(t, map[int]string{1: "one", 2: "two"}, all)

	// The returned map is a copy
	all[3] = "three"
	assert.Equal(t, 2, s.Count())

	values := s.GetAllValues()
	assert.ElementsMatch(t, []string{"one", "two"}, values)
}

func TestMemoryStorageForEach(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage[int, int]()
	for i := 0; i < 5; i++ {
		s.Set(i, i*i)
	}

	visited := 0
	s.ForEach(func(key, value int) bool {
		assert.Equal(t, key*key, value)
		visited++
		return true
	})
	assert.Equal(t, 5, visited)

	// Stops when fn returns false
	visited = 0
	s.ForEach(func(key, value int) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}
