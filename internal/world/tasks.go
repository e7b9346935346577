package world

// Post queues fn for execution on the loop goroutine. The queue is FIFO
// and single-consumer; writes posted later land later. When the queue is
// full the task is dropped with a warning — the scene is already falling
// behind and attribute writes are idempotent per call.
func (s *State) Post(fn func()) {
	select {
	case s.tasks <- fn:
	default:
		s.log.Warn("world: task queue full, dropping task")
	}
}

// DrainTasks runs up to max queued tasks (all of them when max <= 0).
// Called once per tick from the loop goroutine.
func (s *State) DrainTasks(max int) int {
	ran := 0
	for {
		if max > 0 && ran >= max {
			return ran
		}
		select {
		case fn := <-s.tasks:
			fn()
			ran++
		default:
			return ran
		}
	}
}
