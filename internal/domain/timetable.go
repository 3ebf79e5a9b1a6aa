package domain

import (
	"sort"
	"time"
)

// Lesson is one timetable slot: a subject taught at a fixed weekday and
// start time.
type Lesson struct {
	ID        int64
	SubjectID int64
	Subject   string
	Weekday   time.Weekday
	StartsAt  string // "08:15", lexicographically sortable
	EndsAt    string
	Room      string
}

// Timetable maps each weekday to its lessons in start-time order. It is
// the single shared shape consumed by every rendering path; nothing else
// re-derives a per-day grouping from flat lesson rows.
type Timetable map[time.Weekday][]Lesson

// BuildTimetable groups flat lesson rows by weekday and orders each day
// by start time.
func BuildTimetable(lessons []Lesson) Timetable {
	tt := make(Timetable)
	for _, l := range lessons {
		tt[l.Weekday] = append(tt[l.Weekday], l)
	}
	for day := range tt {
		sort.Slice(tt[day], func(i, j int) bool {
			return tt[day][i].StartsAt < tt[day][j].StartsAt
		})
	}
	return tt
}

// Days returns the weekdays that have at least one lesson, Monday first.
func (tt Timetable) Days() []time.Weekday {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday, time.Sunday,
	}
	var days []time.Weekday
	for _, d := range order {
		if len(tt[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}
