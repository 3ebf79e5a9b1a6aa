package domain

import "time"

// Mastery level bounds for flashcards. Level 0 means "new, practice now".
const (
	MinLevel = 0
	MaxLevel = 5
)

// Flashcard is a single front/back entry in a deck, together with its
// spaced-repetition state. Level is only ever changed through the
// practice package's review policy.
type Flashcard struct {
	ID              int64
	DeckID          int64
	Front           string
	Back            string
	Context         string
	Hash            string
	Level           int
	TimesPracticed  int
	LastPracticedAt *time.Time // nil until first practiced
	NextPracticeAt  *time.Time // nil means not yet scheduled
}

// Deck is a named collection of flashcards, optionally tied to a subject.
type Deck struct {
	ID        int64
	Name      string
	SubjectID int64
}

// GradeModifier is the cosmetic "+" / "-" suffix on an exam grade.
// It never affects aggregation math.
type GradeModifier string

const (
	ModifierNone  GradeModifier = "none"
	ModifierPlus  GradeModifier = "+"
	ModifierMinus GradeModifier = "-"
)

// Exam is a single written assessment. Grade is nil until the exam is
// returned and graded; ungraded exams are skipped by the aggregator.
type Exam struct {
	ID            int64
	SubjectID     int64
	ExamTypeID    int64
	Name          string
	DateWritten   time.Time
	DateReturned  *time.Time
	Grade         *float64
	GradeModifier GradeModifier
}

// ExamType categorizes exams (quiz, vocabulary test, ...) and weights
// them relative to other types in the same group.
type ExamType struct {
	ID      int64
	Name    string
	Weight  float64
	GroupID int64
}

// ExamTypeGroup is a weighted bucket of exam types (e.g. written vs
// oral) used for the outer tier of the subject average.
type ExamTypeGroup struct {
	ID     int64
	Name   string
	Weight float64
}

// Subject holds the cached average grade recomputed whenever the
// subject's exam set changes. Nil when no average can be computed.
type Subject struct {
	ID           int64
	Name         string
	AverageGrade *float64
}
