package lowering

// nodeIDAllocator hands out NodeIDs with one counter per template. Entering
// a nested template pushes a fresh counter and leaving it pops, so recursive
// sub-tree processing restores the outer template's numbering.
type nodeIDAllocator struct {
	counters []int
}

func newNodeIDAllocator() *nodeIDAllocator {
	return &nodeIDAllocator{}
}

// Push enters a new template scope.
func (a *nodeIDAllocator) Push() {
	a.counters = append(a.counters, 0)
}

// Pop leaves the current template scope.
func (a *nodeIDAllocator) Pop() {
	a.counters = a.counters[:len(a.counters)-1]
}

// Next allocates the next id in the current template scope.
func (a *nodeIDAllocator) Next() NodeID {
	top := len(a.counters) - 1
	id := NodeID(a.counters[top])
	a.counters[top]++
	return id
}
