// Package tools holds small helpers for writing strategies.
package tools

/*
EntryGate is used to prevent a strategy from stacking entries when the
conditions to enter are met on consecutive bars.
*/
type EntryGate struct {
	max  int
	open int
}

// NewEntryGate is the EntryGate constructor. max is the number of entries that
// may be open at once, at least one.
func NewEntryGate(max int) *EntryGate {
	if max < 1 {
		max = 1
	}

	return &EntryGate{max: max}
}

// Entered will make Try return false once max entries are open.
func (g *EntryGate) Entered() {
	g.open++
}

// Exited notifies that an entry has been closed.
func (g *EntryGate) Exited() {
	if g.open > 0 {
		g.open--
	}
}

// Sync sets the number of open entries, e.g. from the account's positions
// after exits triggered by stop-loss or take-profit levels.
func (g *EntryGate) Sync(open int) {
	if open < 0 {
		open = 0
	}

	g.open = open
}

// Try returns true if a new entry can be made, false otherwise.
func (g *EntryGate) Try() bool {
	return g.open < g.max
}

// Open returns the number of open entries.
func (g *EntryGate) Open() int {
	return g.open
}
