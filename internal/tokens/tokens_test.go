package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBPECounter(t *testing.T) {
	c, err := NewBPECounter("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEncoding, c.Name())

	assert.Zero(t, c.Count(""))
	n := c.Count("def add(a, b):\n    return a + b\n")
	assert.Greater(t, n, 0)
	assert.Equal(t, n, c.Count("def add(a, b):\n    return a + b\n"))
	assert.Greater(t, c.Count("hello world hello world"), c.Count("hello world"))
	assert.Greater(t, c.Count("text with <|endoftext|> inside"), 0)
}

func TestBPECounterUnknownEncoding(t *testing.T) {
	_, err := NewBPECounter("no_such_encoding")
	require.Error(t, err)
}

func TestHeuristicCounter(t *testing.T) {
	var c HeuristicCounter
	assert.Zero(t, c.Count("   "))
	assert.Equal(t, 3, c.Count("one two  three"))
}

type countingCounter struct {
	calls int
}

func (c *countingCounter) Name() string { return "counting" }
func (c *countingCounter) Count(text string) int {
	c.calls++
	return len(text)
}

func TestCachingCounter(t *testing.T) {
	inner := &countingCounter{}
	c, err := NewCachingCounter(inner, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Count("hello"))
	assert.Equal(t, 5, c.Count("hello"))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", c.Name())

	c.Count("a")
	c.Count("bb")
	assert.Equal(t, 2, c.Len())
	c.Count("hello")
	assert.Equal(t, 4, inner.calls)
}

func TestTwoBucketPricing(t *testing.T) {
	assert.True(t, IsHighTier("gpt-4-0613"))
	assert.True(t, IsHighTier("GPT-4-turbo"))
	assert.False(t, IsHighTier("gpt-3.5-turbo-1106"))
	assert.InDelta(t, 10.0, RatePer1K("gpt-4-0613")/RatePer1K("gpt-3.5-turbo-1106"), 1e-12)

	c, err := NewBPECounter(DefaultEncoding)
	require.NoError(t, err)
	text := "Calculate the area of a rectangle."
	hi := EstimateCost(c, text, "gpt-4-0613")
	lo := EstimateCost(c, text, "gpt-3.5-turbo-1106")
	assert.Equal(t, hi.Tokens, lo.Tokens)
	assert.Greater(t, lo.Cost, 0.0)
	assert.InDelta(t, 10*lo.Cost, hi.Cost, 1e-12)
}

func TestEstimateCostEmpty(t *testing.T) {
	e := EstimateCost(HeuristicCounter{}, "", "gpt-4")
	assert.Zero(t, e.Tokens)
	assert.Zero(t, e.Cost)
}
