package action

// Queue is a FIFO of pending actions. It is not safe for concurrent use; the
// bot loop owns it.
type Queue struct {
	items []Action
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends actions in order.
func (q *Queue) Push(actions ...Action) {
	q.items = append(q.items, actions...)
}

// Pop removes and returns the oldest action.
func (q *Queue) Pop() (Action, bool) {
	if len(q.items) == 0 {
		return Action{}, false
	}
	a := q.items[0]
	q.items[0] = Action{}
	q.items = q.items[1:]
	return a, true
}

// Peek returns the oldest action without removing it.
func (q *Queue) Peek() (Action, bool) {
	if len(q.items) == 0 {
		return Action{}, false
	}
	return q.items[0], true
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	return len(q.items)
}

// Empty reports whether no actions are pending.
func (q *Queue) Empty() bool {
	return len(q.items) == 0
}

// Reset drops every pending action.
func (q *Queue) Reset() {
	q.items = nil
}

// Snapshot returns a copy of the pending actions in order.
func (q *Queue) Snapshot() []Action {
	out := make([]Action, len(q.items))
	copy(out, q.items)
	return out
}
