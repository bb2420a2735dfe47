package barsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedIDs(t *testing.T) {

	ids := newOrderedIDs()
	for _, id := range []string{"a", "b", "c", "d"} {
		ids.Append(id)
	}

	snapshot := ids.Snapshot()

	ids.Delete("b")
	ids.Delete("missing")
	assert.Equal(t, []string{"a", "c", "d"}, ids.Snapshot())
	assert.Equal(t, 3, ids.Len())

	ids.Delete("d")
	ids.Append("e")
	ids.Delete("a")
	assert.Equal(t, []string{"c", "e"}, ids.Snapshot())
	assert.Equal(t, map[string]int{"c": 0, "e": 1}, ids.index)

	assert.Equal(t, []string{"a", "b", "c", "d"}, snapshot)
}

func TestSideAndOrderTypeNames(t *testing.T) {
	assert.Equal(t, "Long", Long.String())
	assert.Equal(t, "Short", Short.String())
	assert.Equal(t, "Unknown", Side(5).String())
	assert.Equal(t, "Limit", Limit.String())
	assert.Equal(t, "Unknown", OrderType(-1).String())
	assert.Equal(t, "Failed", Failed.String())
}
