package domain

// ShiftPlan describes the sibling update that keeps orders dense when one
// note moves from Old to Target: every sibling with order in [From, To]
// moves by Delta. A plan with Delta 0 is a no-op.
// ShiftPlan 描述移动一条笔记时兄弟笔记需要平移的区间
type ShiftPlan struct {
	Old    int
	Target int
	From   int
	To     int
	Delta  int
}

// Noop reports whether applying the plan writes nothing.
func (p ShiftPlan) Noop() bool {
	return p.Delta == 0
}

// Shift returns the new order of a sibling currently at order.
func (p ShiftPlan) Shift(order int) int {
	if p.Noop() || order < p.From || order > p.To {
		return order
	}
	return order + p.Delta
}

// PlanReorder computes the shift for moving a note from old to target in a
// list of count notes.
//
//	target > old: siblings in (old, target] move down by one
//	target < old: siblings in [target, old) move up by one
func PlanReorder(old, target, count int) (ShiftPlan, error) {
	const op = "PlanReorder"
	if target < 0 || target >= count {
		return ShiftPlan{}, InvalidOrder(op, target, count)
	}
	if old < 0 || old >= count {
		return ShiftPlan{}, Validation(op, "current order %d not in [0, %d]", old, count-1)
	}

	plan := ShiftPlan{Old: old, Target: target}
	switch {
	case target > old:
		plan.From, plan.To, plan.Delta = old+1, target, -1
	case target < old:
		plan.From, plan.To, plan.Delta = target, old-1, 1
	}
	return plan, nil
}

// ApplyPlan applies plan to an in-memory order slice indexed by note position
// in the slice, moving the note currently at plan.Old to plan.Target.
// It returns a new slice and leaves orders untouched.
func ApplyPlan(orders []int, plan ShiftPlan) []int {
	out := make([]int, len(orders))
	for i, o := range orders {
		if o == plan.Old {
			out[i] = plan.Target
			continue
		}
		out[i] = plan.Shift(o)
	}
	return out
}
