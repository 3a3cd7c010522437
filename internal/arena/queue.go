package arena

// queue is the FIFO of connections waiting for a match. Duplicate enqueues
// and removals of absent handles are no-ops, which keeps cancel racing a
// pairing pass benign. Not safe for concurrent use on its own; the
// Coordinator serializes access together with the registry.
type queue struct {
	waiting []Conn
}

// enqueue appends c unless it is already queued. Reports whether it was added.
func (q *queue) enqueue(c Conn) bool {
	if q.position(c) > 0 {
		return false
	}
	q.waiting = append(q.waiting, c)
	return true
}

// remove deletes c from the queue if present.
func (q *queue) remove(c Conn) bool {
	for i, w := range q.waiting {
		if w.ID() == c.ID() {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// position returns the 1-based rank of c, or -1 when not queued.
func (q *queue) position(c Conn) int {
	for i, w := range q.waiting {
		if w.ID() == c.ID() {
			return i + 1
		}
	}
	return -1
}

// popPair removes and returns the two oldest waiters.
func (q *queue) popPair() (a, b Conn, ok bool) {
	if len(q.waiting) < 2 {
		return nil, nil, false
	}
	a, b = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	return a, b, true
}

func (q *queue) len() int { return len(q.waiting) }
