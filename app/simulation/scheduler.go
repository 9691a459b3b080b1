package simulation

import (
	"container/heap"
)

// event is an action scheduled to run at a point in simulated time.
// Events scheduled to the same time run in the order they were scheduled.
type event struct {
	time     float64
	sequence uint64
	action   func() error
}

type eventQueue []*event

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	if eq[i].time == eq[j].time {
		return eq[i].sequence < eq[j].sequence
	}
	return eq[i].time < eq[j].time
}

func (eq eventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x interface{}) {
	*eq = append(*eq, x.(*event))
}

func (eq *eventQueue) Pop() interface{} {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eq = old[:n-1]
	return item
}

// scheduler runs scheduled actions in simulated time order
type scheduler struct {
	now          float64
	nextSequence uint64
	queue        eventQueue
}

func newScheduler() *scheduler {
	return &scheduler{}
}

// schedule runs action delay time units from now
func (s *scheduler) schedule(delay float64, action func() error) {
	heap.Push(&s.queue, &event{
		time:     s.now + delay,
		sequence: s.nextSequence,
		action:   action,
	})
	s.nextSequence++
}

// run runs all actions scheduled up to until, including the ones
// scheduled while running. It stops at the first action that fails.
func (s *scheduler) run(until float64) error {
	for s.queue.Len() > 0 && s.queue[0].time <= until {
		next := heap.Pop(&s.queue).(*event)
		s.now = next.time
		err := next.action()
		if err != nil {
			return err
		}
	}
	s.now = until
	return nil
}
