//go:build !solution

package rwmutex

import "sync"

// A RWMutex is a fair reader/writer mutual exclusion lock.
// The lock can be held by an arbitrary number of readers or a single writer.
// The zero value for a RWMutex is an unlocked mutex.
//
// Admission is ordered by arrival. Once a goroutine is waiting in Lock, readers
// that call RLock after it queue behind it even if other readers currently hold
// the lock, so a writer waits at most for the readers that were active when it
// arrived. Writers are admitted in FIFO order. A run of readers queued back to
// back is admitted together.
//
// RWMutex is not re-entrant: a goroutine holding the lock for reading must not
// call RLock again, because a writer queued in between would deadlock both.
type RWMutex struct {
	mu sync.Mutex

	readers int  // активные читатели
	writer  bool // активен ли писатель

	// очередь ожидающих в порядке прихода
	head, tail *waiter
	rWaiting   int
	wWaiting   int

	readCond  *sync.Cond
	writeCond *sync.Cond
}

type waiter struct {
	next    *waiter
	write   bool
	granted bool
}

// Stats is a consistent snapshot of the lock state.
type Stats struct {
	ActiveReaders  int
	WriterActive   bool
	WaitingReaders int
	WaitingWriters int
}

// New creates *RWMutex.
func New() *RWMutex {
	rw := &RWMutex{}
	rw.initLocked()
	return rw
}

func (rw *RWMutex) initLocked() {
	if rw.readCond == nil {
		rw.readCond = sync.NewCond(&rw.mu)
		rw.writeCond = sync.NewCond(&rw.mu)
	}
}

// RLock locks rw for reading.
//
// It blocks while a writer holds the lock or while anybody is queued ahead of
// the caller. See the documentation on the RWMutex type.
func (rw *RWMutex) RLock() {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.initLocked()

	if !rw.writer && rw.head == nil {
		rw.readers++
		rw.checkLocked()
		return
	}

	w := rw.enqueueLocked(false)
	for !w.granted {
		rw.readCond.Wait()
	}
}

// RUnlock undoes a single RLock call;
// it does not affect other simultaneous readers.
// It is a run-time error if rw is not locked for reading
// on entry to RUnlock.
func (rw *RWMutex) RUnlock() {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.readers <= 0 {
		panic("rwmutex: RUnlock of unlocked RWMutex")
	}
	rw.readers--
	if rw.readers == 0 {
		// последний читатель будит писателя, который ждал только его
		rw.admitLocked()
	}
	rw.checkLocked()
}

// Lock locks rw for writing.
// If the lock is already locked for reading or writing, or other goroutines
// are already waiting, Lock blocks until every earlier arrival is served.
func (rw *RWMutex) Lock() {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.initLocked()

	if !rw.writer && rw.readers == 0 && rw.head == nil {
		rw.writer = true
		rw.checkLocked()
		return
	}

	w := rw.enqueueLocked(true)
	for !w.granted {
		rw.writeCond.Wait()
	}
}

// Unlock unlocks rw for writing. It is a run-time error if rw is
// not locked for writing on entry to Unlock.
//
// As with Mutexes, a locked RWMutex is not associated with a particular
// goroutine. One goroutine may RLock (Lock) a RWMutex and then
// arrange for another goroutine to RUnlock (Unlock) it.
func (rw *RWMutex) Unlock() {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if !rw.writer {
		panic("rwmutex: Unlock of unlocked RWMutex")
	}
	rw.writer = false
	rw.admitLocked()
	rw.checkLocked()
}

// Stats returns the current lock state.
func (rw *RWMutex) Stats() Stats {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	return Stats{
		ActiveReaders:  rw.readers,
		WriterActive:   rw.writer,
		WaitingReaders: rw.rWaiting,
		WaitingWriters: rw.wWaiting,
	}
}

func (rw *RWMutex) enqueueLocked(write bool) *waiter {
	w := &waiter{write: write}
	if rw.tail == nil {
		rw.head = w
	} else {
		rw.tail.next = w
	}
	rw.tail = w

	if write {
		rw.wWaiting++
	} else {
		rw.rWaiting++
	}
	return w
}

func (rw *RWMutex) dequeueLocked() *waiter {
	w := rw.head
	rw.head = w.next
	if rw.head == nil {
		rw.tail = nil
	}
	w.next = nil

	if w.write {
		rw.wWaiting--
	} else {
		rw.rWaiting--
	}
	return w
}

// admitLocked hands the lock to the head of the queue if the state allows it.
func (rw *RWMutex) admitLocked() {
	if rw.writer || rw.head == nil {
		return
	}

	if rw.head.write {
		if rw.readers > 0 {
			return
		}
		w := rw.dequeueLocked()
		w.granted = true
		rw.writer = true
		// на writeCond ждут все писатели, проснётся только тот, у кого granted
		rw.writeCond.Broadcast()
		return
	}

	// пускаем всех читателей до первого писателя в очереди
	admitted := false
	for rw.head != nil && !rw.head.write {
		w := rw.dequeueLocked()
		w.granted = true
		rw.readers++
		admitted = true
	}
	if admitted {
		rw.readCond.Broadcast()
	}
}

func (rw *RWMutex) checkLocked() {
	if rw.writer && rw.readers != 0 {
		panic("rwmutex: writer active while readers hold the lock")
	}
	if rw.readers < 0 || rw.rWaiting < 0 || rw.wWaiting < 0 {
		panic("rwmutex: negative lock counter")
	}
}
