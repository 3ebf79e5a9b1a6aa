package practice

import (
	"github.com/schulware/pult/internal/domain"
)

// Mode selects whether a session writes authoritative progress.
type Mode string

const (
	// ModeSmart records progress through the scheduler whenever a card
	// graduates or is answered wrong.
	ModeSmart Mode = "smart"
	// ModePractice drills locally without ever touching the schedule.
	ModePractice Mode = "practice"
)

// Verdict is one user decision on the current card.
type Verdict int

const (
	Unknown Verdict = iota
	Known
)

// SessionCard wraps a flashcard for the lifetime of one session.
// StartLevel is the level captured when the session began; progress
// writes always use it, never a value the session itself advanced.
type SessionCard struct {
	Card          domain.Flashcard
	StartLevel    int
	CorrectStreak int
}

// ProgressRequest asks the caller to record a practice result through
// the scheduler. It is dispatched fire-and-forget: the session state
// has already moved on and a failed write only leaves the stored
// schedule stale.
type ProgressRequest struct {
	CardID int64
	Known  bool
	Level  int
}

// Session is the full state of one review pass over a set of due
// cards. Advance returns a replacement value instead of mutating, so
// the transition rules stay testable as a pure reducer.
type Session struct {
	Mode      Mode
	Queue     []SessionCard
	Index     int
	Completed []int64
}

// NewSession starts a session over cards already filtered to "due" by
// the caller. Every streak starts at zero.
func NewSession(cards []domain.Flashcard, mode Mode) Session {
	queue := make([]SessionCard, len(cards))
	for i, c := range cards {
		queue[i] = SessionCard{Card: c, StartLevel: c.Level}
	}
	return Session{Mode: mode, Queue: queue}
}

// Current returns the card the next verdict applies to.
func (s Session) Current() (SessionCard, bool) {
	if s.Complete() {
		return SessionCard{}, false
	}
	return s.Queue[s.Index], true
}

// Complete reports whether every card has graduated.
func (s Session) Complete() bool {
	return len(s.Queue) == 0
}

// CompletedCount is the session summary: how many cards graduated.
func (s Session) CompletedCount() int {
	return len(s.Completed)
}

// Advance applies one verdict to the current card and returns the next
// session state, plus a progress request when smart mode needs one.
//
// Two consecutive correct answers graduate a card: it leaves the queue
// and, in smart mode, its start-of-session level is recorded as known
// exactly once. A first correct answer only moves the card to the back
// of the queue. A wrong answer resets the streak, requeues the card,
// and in smart mode records the miss immediately. After any splice the
// next card is Queue[Index], with Index wrapping to 0 only when it
// would run past the new queue length.
func Advance(s Session, v Verdict) (Session, *ProgressRequest) {
	if s.Complete() {
		return s, nil
	}

	queue := make([]SessionCard, len(s.Queue))
	copy(queue, s.Queue)
	completed := make([]int64, len(s.Completed), len(s.Completed)+1)
	copy(completed, s.Completed)

	cur := queue[s.Index]
	var req *ProgressRequest

	switch {
	case v == Known && cur.CorrectStreak >= 1:
		// Second correct in a row: graduate.
		queue = append(queue[:s.Index], queue[s.Index+1:]...)
		completed = append(completed, cur.Card.ID)
		if s.Mode == ModeSmart {
			req = &ProgressRequest{CardID: cur.Card.ID, Known: true, Level: cur.StartLevel}
		}
	case v == Known:
		cur.CorrectStreak = 1
		queue = append(queue[:s.Index], queue[s.Index+1:]...)
		queue = append(queue, cur)
	default: // Unknown
		cur.CorrectStreak = 0
		queue = append(queue[:s.Index], queue[s.Index+1:]...)
		queue = append(queue, cur)
		if s.Mode == ModeSmart {
			req = &ProgressRequest{CardID: cur.Card.ID, Known: false, Level: cur.StartLevel}
		}
	}

	index := s.Index
	if index >= len(queue) {
		index = 0
	}

	return Session{Mode: s.Mode, Queue: queue, Index: index, Completed: completed}, req
}
