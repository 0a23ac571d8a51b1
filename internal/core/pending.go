package core

import "sort"

// middleRow is the y coordinate of the map's middle aisle; pickups off
// it are preferred so the central corridor drains first.
const middleRow = 10

// SortedPendingTasks returns the pending tasks in assignment order.
// Tasks are grouped by start point (FIFO within a group) and ordered by
// a composite key: position in group, priority, whether the group holds
// any high-priority task, group size, and whether the pickup sits off
// the middle row. Recomputed on every call; never cached.
func (c *Context) SortedPendingTasks() []*Task {
	var pending []*Task
	for _, t := range c.Tasks {
		if t.Pending() {
			pending = append(pending, t)
		}
	}

	groups := make(map[string][]*Task)
	for _, t := range pending {
		groups[t.StartPoint] = append(groups[t.StartPoint], t)
	}

	groupIndex := func(t *Task) int {
		for i, g := range groups[t.StartPoint] {
			if g == t {
				return i
			}
		}
		return 0
	}
	groupHasHigh := func(t *Task) bool {
		for _, g := range groups[t.StartPoint] {
			if g.Priority == High {
				return true
			}
		}
		return false
	}

	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]

		if ai, bi := groupIndex(a), groupIndex(b); ai != bi {
			return ai < bi
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if ah, bh := groupHasHigh(a), groupHasHigh(b); ah != bh {
			return ah
		}
		if al, bl := len(groups[a.StartPoint]), len(groups[b.StartPoint]); al != bl {
			return al > bl
		}
		aOff, bOff := a.PickupPos.Y != middleRow, b.PickupPos.Y != middleRow
		if aOff != bOff {
			return aOff
		}
		return false
	})

	return pending
}
