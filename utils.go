package barsim

// orderedIDs keeps ids in insertion order so the account can walk its
// hashmap-backed collections deterministically.
type orderedIDs struct {
	index map[string]int
	ids   []string
}

func newOrderedIDs() *orderedIDs {
	return &orderedIDs{
		index: make(map[string]int),
		ids:   make([]string, 0),
	}
}

func (o *orderedIDs) Append(id string) {
	o.index[id] = len(o.ids)
	o.ids = append(o.ids, id)
}

// Snapshot returns a copy of the ids in insertion order, safe to range over
// while the collection is modified.
func (o *orderedIDs) Snapshot() []string {
	return append([]string(nil), o.ids...)
}

func (o *orderedIDs) Delete(id string) {

	itemIndex, exist := o.index[id]
	if !exist {
		return
	}

	delete(o.index, id)
	for k, v := range o.index {
		if v > itemIndex {
			o.index[k]--
		}
	}
	o.ids = o.ids[:itemIndex+copy(o.ids[itemIndex:], o.ids[itemIndex+1:])]
}

func (o *orderedIDs) Len() int {
	return len(o.ids)
}
