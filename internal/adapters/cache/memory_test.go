package cache

import (
	"fmt"
	"sync"
	"testing"

	"courtfinder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clubs(ids ...int) []domain.ClubWithAvailability {
	out := make([]domain.ClubWithAvailability, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewClubWithAvailability(domain.Club{ID: id}, nil))
	}
	return out
}

func TestMemory_GetAfterSet(t *testing.T) {
	c := NewMemory()
	v := clubs(1, 2)

	c.Set("place-1-2024-05-01", v)
	got, ok := c.Get("place-1-2024-05-01")

	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestMemory_MissAndEmptyAreDistinct(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("absent")
	assert.False(t, ok)

	c.Set("empty", []domain.ClubWithAvailability{})
	got, ok := c.Get("empty")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestMemory_DeleteClearAndIntrospection(t *testing.T) {
	c := NewMemory()
	c.Set("b", clubs(1))
	c.Set("a", clubs(2))
	c.Set("c", clubs(3))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())

	c.Delete("b")
	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, c.Keys())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
}

func TestMemory_DeleteWhere(t *testing.T) {
	c := NewMemory()
	c.Set("p-2024-05-01", clubs(7, 8))
	c.Set("q-2024-05-01", clubs(9))
	c.Set("p-2024-05-02", clubs(7))

	removed := c.DeleteWhere(func(_ string, v []domain.ClubWithAvailability) bool {
		return domain.ContainsClub(v, 7)
	})

	assert.Equal(t, []string{"p-2024-05-01", "p-2024-05-02"}, removed)
	assert.Equal(t, []string{"q-2024-05-01"}, c.Keys())
}

func TestMemory_SetIfGeneration(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(c *Memory)
		wantStored bool
	}{
		{"no invalidation", func(*Memory) {}, true},
		{"plain set does not invalidate", func(c *Memory) { c.Set("other-2024-05-01", clubs(1)) }, true},
		{"delete", func(c *Memory) { c.Delete("other-2024-05-01") }, false},
		{"clear", func(c *Memory) { c.Clear() }, false},
		{"delete where without match", func(c *Memory) {
			c.DeleteWhere(func(string, []domain.ClubWithAvailability) bool { return false })
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMemory()
			gen := c.Generation()
			tt.invalidate(c)

			stored := c.SetIfGeneration("p-2024-05-01", clubs(7), gen)

			assert.Equal(t, tt.wantStored, stored)
			_, ok := c.Get("p-2024-05-01")
			assert.Equal(t, tt.wantStored, ok)
		})
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	c := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		key := fmt.Sprintf("place-%d-2024-05-01", i%5)
		go func() {
			defer wg.Done()
			c.Set(key, clubs(i))
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Get(key)
		}()
		go func() {
			defer wg.Done()
			c.DeleteWhere(func(_ string, v []domain.ClubWithAvailability) bool {
				return domain.ContainsClub(v, i)
			})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 5)
}
