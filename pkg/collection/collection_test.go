package collection_test

import (
	"testing"

	"github.com/shashiranjanraj/brewandco/pkg/collection"
	"github.com/stretchr/testify/assert"
)

type line struct {
	id  int
	qty int
}

func TestMap(t *testing.T) {
	ids := collection.Map([]line{{1, 2}, {3, 1}}, func(l line) int { return l.id })
	assert.Equal(t, []int{1, 3}, ids)
	assert.Empty(t, collection.Map([]line(nil), func(l line) int { return l.id }))
}

func TestFilterAndReject(t *testing.T) {
	lines := []line{{1, 2}, {2, 0}, {3, 5}}
	stocked := func(l line) bool { return l.qty > 0 }

	assert.Equal(t, []line{{1, 2}, {3, 5}}, collection.Filter(lines, stocked))
	assert.Equal(t, []line{{2, 0}}, collection.Reject(lines, stocked))

	none := collection.Filter(lines, func(line) bool { return false })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReduce(t *testing.T) {
	lines := []line{{1, 2}, {2, 3}}
	assert.Equal(t, 5, collection.Reduce(lines, 0, func(n int, l line) int { return n + l.qty }))
	assert.Equal(t, 7, collection.Reduce([]line(nil), 7, func(n int, l line) int { return n + l.qty }))
}
