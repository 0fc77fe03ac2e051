package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmesh/riskmesh/core"
)

var _ core.ResultCache = (*LRUCache)(nil)

func successResult(agent string, score float64) core.AgentResult {
	return core.NewSuccessResult(agent, agent+"/v1", &core.Analysis{RiskScore: score}, 1)
}

func TestLRUCache_PutGet(t *testing.T) {
	c := New()
	key := core.CacheKey{Agent: "legal", Fingerprint: "abc"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	assert.True(t, c.Put(key, successResult("legal", 5)))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 5.0, got.Analysis.RiskScore)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_FirstWriterWins(t *testing.T) {
	c := New()
	key := core.CacheKey{Agent: "legal", Fingerprint: "abc"}

	assert.True(t, c.Put(key, successResult("legal", 5)))
	assert.False(t, c.Put(key, successResult("legal", 9)))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 5.0, got.Analysis.RiskScore)
}

func TestLRUCache_RejectsNonSuccess(t *testing.T) {
	c := New()
	key := core.CacheKey{Agent: "legal", Fingerprint: "abc"}

	assert.False(t, c.Put(key, core.NewFailedResult("legal", core.ErrorKindTransient, "boom", 3)))
	assert.False(t, c.Put(key, core.NewDegradedResult("legal", "raw", errors.New("bad json"), 2)))
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_KeyIsolation(t *testing.T) {
	c := New()

	c.Put(core.CacheKey{Agent: "legal", Fingerprint: "abc"}, successResult("legal", 5))
	c.Put(core.CacheKey{Agent: "business", Fingerprint: "abc"}, successResult("business", 3))

	legal, ok := c.Get(core.CacheKey{Agent: "legal", Fingerprint: "abc"})
	require.True(t, ok)
	assert.Equal(t, "legal", legal.Agent)

	_, ok = c.Get(core.CacheKey{Agent: "legal", Fingerprint: "other"})
	assert.False(t, ok)
}

func TestLRUCache_InvalidateAndPurge(t *testing.T) {
	c := New()
	key := core.CacheKey{Agent: "legal", Fingerprint: "abc"}

	c.Put(key, successResult("legal", 5))
	c.Invalidate(key)
	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, successResult("legal", 5))
	c.Put(core.CacheKey{Agent: "business", Fingerprint: "abc"}, successResult("business", 3))
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := New(func(o *Options) { o.MaxEntries = 2 })

	c.Put(core.CacheKey{Agent: "legal", Fingerprint: "a"}, successResult("legal", 1))
	c.Put(core.CacheKey{Agent: "legal", Fingerprint: "b"}, successResult("legal", 2))
	c.Put(core.CacheKey{Agent: "legal", Fingerprint: "c"}, successResult("legal", 3))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(core.CacheKey{Agent: "legal", Fingerprint: "a"})
	assert.False(t, ok, "oldest entry should be evicted")
}
