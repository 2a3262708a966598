package service

// RunnerPool bounds how many battle simulations run at the same time.
// Spawning never blocks the caller: each task waits for a free slot inside
// its own goroutine, so a saturated pool delays battles instead of failing
// matchmaking.
type RunnerPool struct {
	sem chan struct{}
}

func NewRunnerPool(size int) *RunnerPool {
	if size <= 0 {
		size = 1
	}
	return &RunnerPool{sem: make(chan struct{}, size)}
}

// Go schedules task on the pool.
func (p *RunnerPool) Go(task func()) {
	go func() {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		task()
	}()
}
