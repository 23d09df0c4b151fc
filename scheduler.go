// scheduler.go - T-state clock & event scheduler for the ZX Spectrum core.

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "container/heap"

// EventKind tags the payload carried by a scheduled Event.
type EventKind int

const (
	EventNull EventKind = iota // tombstone: popped and discarded without dispatch
	EventFrame
	EventInterrupt
	EventNMI
	EventTapeEdge
	EventFDCStep
	EventFDCTimeout
	EventFDCMotorOff
	EventFDCIndex
	EventFDCDRQTimeout
	EventBreakpoint
	EventTimer
)

func (k EventKind) String() string {
	switch k {
	case EventNull:
		return "NULL"
	case EventFrame:
		return "FRAME"
	case EventInterrupt:
		return "INTERRUPT"
	case EventNMI:
		return "NMI"
	case EventTapeEdge:
		return "EDGE"
	case EventFDCStep:
		return "FDC_STEP"
	case EventFDCTimeout:
		return "FDC_TIMEOUT"
	case EventFDCMotorOff:
		return "FDC_MOTOR_OFF"
	case EventFDCIndex:
		return "FDC_INDEX"
	case EventFDCDRQTimeout:
		return "FDC_DRQ_TIMEOUT"
	case EventBreakpoint:
		return "BREAKPOINT"
	case EventTimer:
		return "TIMER"
	}
	return "UNKNOWN"
}

// EventHandler is called when an event's deadline has passed. The payload is
// whatever was supplied at schedule time; handlers type-assert it themselves.
type EventHandler func(payload interface{})

// Event is a single (deadline, kind, payload) tuple living in the scheduler's
// min-heap. Cancellation never removes an Event from the heap: cancel_type
// rewrites Kind to EventNull in place, and the pop loop skips it.
type Event struct {
	Deadline int64
	Kind     EventKind
	Payload  interface{}
	Handler  EventHandler
	index    int // heap.Interface bookkeeping
}

// eventHeap implements container/heap.Interface, ordered by Deadline.
type eventHeap []*Event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].Deadline < h[j].Deadline }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *eventHeap) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler drives the global T-state cursor and dispatches events at exact
// deadlines. It is single-threaded: only the simulation goroutine touches it.
type Scheduler struct {
	now   int64
	heap  eventHeap
	count int // events currently live (non-NULL), for diagnostics
}

// NewScheduler returns an empty scheduler with the T-state cursor at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.heap)
	return s
}

// Now returns the current T-state cursor.
func (s *Scheduler) Now() int64 { return s.now }

// Advance moves the T-state cursor forward by cycles without dispatching;
// callers that need dispatch should follow with RunUntil.
func (s *Scheduler) Advance(cycles int) { s.now += int64(cycles) }

// Schedule inserts a new event at an absolute deadline. Per invariant 2,
// deadline must be >= Now() at the moment of insertion; callers computing a
// deadline in the past are a caller-side bug, not something the scheduler
// silently corrects.
func (s *Scheduler) Schedule(deadline int64, kind EventKind, payload interface{}, handler EventHandler) *Event {
	e := &Event{Deadline: deadline, Kind: kind, Payload: payload, Handler: handler}
	heap.Push(&s.heap, e)
	s.count++
	return e
}

// CancelType marks every currently queued event of the given kind as NULL.
// No heap restructuring happens; the pop loop in RunUntil discards tombstones
// as it encounters them. This is the only cancellation mechanism: there is no
// random-access removal from the heap.
func (s *Scheduler) CancelType(kind EventKind) {
	for _, e := range s.heap {
		if e.Kind == kind {
			e.Kind = EventNull
			s.count--
		}
	}
}

// Cancel marks a specific event handle as NULL. Used by the debugger to
// remove a single TIME breakpoint's scheduled check without disturbing
// others of the same kind.
func (s *Scheduler) Cancel(e *Event) {
	if e != nil && e.Kind != EventNull {
		e.Kind = EventNull
		s.count--
	}
}

// RunUntil pops and dispatches every event with Deadline <= now, in deadline
// order. Handlers may schedule further events; those are honoured within the
// same call if their own deadlines are also <= now. The cursor moves forward
// to each event's deadline before its handler runs (so Now() inside a handler
// is the event's time) and ends at now; it never moves backwards.
func (s *Scheduler) RunUntil(now int64) {
	for s.heap.Len() > 0 && s.heap[0].Deadline <= now {
		e := heap.Pop(&s.heap).(*Event)
		if e.Kind == EventNull {
			continue
		}
		s.count--
		if e.Deadline > s.now {
			s.now = e.Deadline
		}
		kind, payload, handler := e.Kind, e.Payload, e.Handler
		if handler != nil {
			handler(payload)
		}
		_ = kind
	}
	if now > s.now {
		s.now = now
	}
}

// RunPending dispatches every event due at the current T-state cursor.
func (s *Scheduler) RunPending() { s.RunUntil(s.now) }

// EndOfFrame rebases the T-state cursor and every outstanding deadline by
// subtracting frameLength. Negative deadlines are legal and simply fire on
// the next poll; relative ordering among events is preserved because every
// deadline moves by the same amount.
func (s *Scheduler) EndOfFrame(frameLength int64) {
	s.now -= frameLength
	for _, e := range s.heap {
		e.Deadline -= frameLength
	}
}

// Reset clears the entire event queue and returns the cursor to 0. It queues
// nothing itself; EmulatorCore.Reset reseeds only the next frame's interrupt
// assert/deassert pair afterwards, and no frame or timer event is queued.
func (s *Scheduler) Reset() {
	s.heap = s.heap[:0]
	s.count = 0
	s.now = 0
}

// Pending returns the number of live (non-NULL) events still queued.
func (s *Scheduler) Pending() int { return s.count }
