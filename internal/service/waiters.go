package service

import "sync"

// waiterBoard tracks in-process waiters for battle completion. The runner
// signals it after finalization so blocked requests wake up immediately; the
// matchmaker still re-polls storage as a fallback, which also covers battles
// finalized by another process.
type waiterBoard struct {
	mu      sync.Mutex
	entries map[uint]*waiterEntry
}

type waiterEntry struct {
	ch   chan struct{}
	refs int
}

func newWaiterBoard() *waiterBoard {
	return &waiterBoard{entries: make(map[uint]*waiterEntry)}
}

// subscribe returns a channel that is closed once the battle is signalled
// complete. All waiters of one battle share the same channel; every
// subscribe must be balanced by an unsubscribe so entries for battles that
// never finalize (a pending battle whose waiter gives up) do not accumulate.
func (w *waiterBoard) subscribe(battleID uint) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[battleID]
	if !ok {
		e = &waiterEntry{ch: make(chan struct{})}
		w.entries[battleID] = e
	}
	e.refs++
	return e.ch
}

// unsubscribe drops one waiter reference and forgets the battle once nobody
// is left waiting on it. A no-op after signal already removed the entry.
func (w *waiterBoard) unsubscribe(battleID uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[battleID]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(w.entries, battleID)
	}
}

// signal wakes every waiter of the battle and forgets it.
func (w *waiterBoard) signal(battleID uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entries[battleID]; ok {
		close(e.ch)
		delete(w.entries, battleID)
	}
}
