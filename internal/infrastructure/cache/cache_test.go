package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *counter) load(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"oak", "pine"}, nil
}

func TestSnapshot_LoadsOnce(t *testing.T) {
	c := &counter{}
	s := NewSnapshot("cat_materials", c.load, 0)

	for range 3 {
		items, err := s.ListActive(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"oak", "pine"}, items)
	}
	assert.Equal(t, 1, c.calls)

	st := s.Stats()
	assert.True(t, st.Cached)
	assert.Equal(t, 2, st.Items)
	assert.Equal(t, 1, st.Loads)
}

func TestSnapshot_Invalidate(t *testing.T) {
	c := &counter{}
	s := NewSnapshot("cat_materials", c.load, 0)

	_, err := s.ListActive(context.Background())
	require.NoError(t, err)

	s.Invalidate()
	assert.False(t, s.Stats().Cached)

	_, err = s.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, c.calls)
}

func TestSnapshot_TTL(t *testing.T) {
	c := &counter{}
	s := NewSnapshot("cat_materials", c.load, time.Minute)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _ = s.ListActive(context.Background())
	now = now.Add(30 * time.Second)
	_, _ = s.ListActive(context.Background())
	assert.Equal(t, 1, c.calls)

	now = now.Add(time.Minute)
	_, _ = s.ListActive(context.Background())
	assert.Equal(t, 2, c.calls)
}

func TestSnapshot_LoadErrorNotCached(t *testing.T) {
	c := &counter{err: errors.New("db down")}
	s := NewSnapshot("cat_materials", c.load, 0)

	_, err := s.ListActive(context.Background())
	require.Error(t, err)

	c.err = nil
	items, err := s.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, c.calls)
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	c := &counter{}
	s := NewSnapshot("cat_materials", c.load, 0)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ListActive(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.calls)
}

func TestListener_Dispatch(t *testing.T) {
	mc, rc := &counter{}, &counter{}
	materials := NewSnapshot("cat_materials", mc.load, 0)
	recipes := NewSnapshot("cat_paint_recipes", rc.load, 0)

	ctx := context.Background()
	_, _ = materials.ListActive(ctx)
	_, _ = recipes.ListActive(ctx)

	l := NewListener(nil, materials, recipes)
	var seen []string
	l.OnInvalidation(func(table string) { seen = append(seen, table) })

	l.Dispatch(" cat_materials ")
	assert.False(t, materials.Stats().Cached)
	assert.True(t, recipes.Stats().Cached)

	l.Dispatch("")
	assert.False(t, recipes.Stats().Cached)

	assert.Equal(t, []string{"cat_materials", ""}, seen)
}

func TestListener_ListenerPanicRecovered(t *testing.T) {
	l := NewListener(nil)
	called := false
	l.OnInvalidation(func(string) { panic("boom") })
	l.OnInvalidation(func(string) { called = true })

	assert.NotPanics(t, func() { l.Dispatch("cat_materials") })
	assert.True(t, called)
}

func TestListener_StartWithoutPool(t *testing.T) {
	l := NewListener(nil)
	l.Start(context.Background())
	l.Stop()
}
