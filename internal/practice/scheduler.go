// Package practice implements the leveled spaced-repetition scheduler
// and the in-memory review session state machine.
//
// Scheduling uses a fixed interval table per mastery level rather than
// a continuous formula, so due dates are fully predictable. All
// functions take the current time explicitly and mutate nothing; the
// one side effect in the system, writing progress back to storage, is
// described by the Review value and performed by the storage layer.
package practice

import (
	"time"

	"github.com/schulware/pult/internal/domain"
)

// intervals maps a mastery level to the delay until the next practice.
// Levels outside the table (including 0) are due immediately.
var intervals = map[int]time.Duration{
	1: 24 * time.Hour,
	2: 2 * 24 * time.Hour,
	3: 7 * 24 * time.Hour,
	4: 14 * 24 * time.Hour,
	5: 30 * 24 * time.Hour,
}

// NeedsPractice reports whether the card is due at the given time.
// Level 0 cards are always due. A leveled card without a scheduled next
// practice is never due; otherwise a card due exactly now counts as due.
func NeedsPractice(card domain.Flashcard, now time.Time) bool {
	if card.Level == domain.MinLevel {
		return true
	}
	if card.NextPracticeAt == nil {
		return false
	}
	return !card.NextPracticeAt.After(now)
}

// CountDue returns how many of the given cards are due at the given time.
func CountDue(cards []domain.Flashcard, now time.Time) int {
	n := 0
	for _, c := range cards {
		if NeedsPractice(c, now) {
			n++
		}
	}
	return n
}

// NextPractice maps a mastery level to the absolute time the card is
// next due, counted from now.
func NextPractice(level int, now time.Time) time.Time {
	if d, ok := intervals[level]; ok {
		return now.Add(d)
	}
	return now
}

// Review is the outcome of one recorded practice result: the fields the
// storage layer must write for the card. The times-practiced counter is
// incremented by the write itself and is not part of this value.
type Review struct {
	Level           int
	LastPracticedAt time.Time
	NextPracticeAt  time.Time
}

// ApplyReview computes the progress write for one verdict. A known card
// advances one level, capped at the maximum, and is scheduled by the
// interval table. An unknown card drops to level 0 and stays due now,
// keeping it in today's rotation.
func ApplyReview(known bool, currentLevel int, now time.Time) Review {
	if !known {
		return Review{
			Level:           domain.MinLevel,
			LastPracticedAt: now,
			NextPracticeAt:  now,
		}
	}
	level := currentLevel + 1
	if level > domain.MaxLevel {
		level = domain.MaxLevel
	}
	return Review{
		Level:           level,
		LastPracticedAt: now,
		NextPracticeAt:  NextPractice(level, now),
	}
}
