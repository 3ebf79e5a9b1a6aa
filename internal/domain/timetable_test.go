package domain

import (
	"testing"
	"time"
)

func TestBuildTimetable(t *testing.T) {
	lessons := []Lesson{
		{ID: 1, Subject: "math", Weekday: time.Monday, StartsAt: "10:15", EndsAt: "11:00"},
		{ID: 2, Subject: "latin", Weekday: time.Monday, StartsAt: "08:15", EndsAt: "09:00"},
		{ID: 3, Subject: "sport", Weekday: time.Wednesday, StartsAt: "14:00", EndsAt: "15:30"},
	}

	tt := BuildTimetable(lessons)

	monday := tt[time.Monday]
	if len(monday) != 2 {
		t.Fatalf("expected 2 lessons on Monday, got %d", len(monday))
	}
	if monday[0].Subject != "latin" || monday[1].Subject != "math" {
		t.Errorf("Monday lessons not ordered by start time: %+v", monday)
	}

	days := tt.Days()
	if len(days) != 2 || days[0] != time.Monday || days[1] != time.Wednesday {
		t.Errorf("unexpected days: %v", days)
	}

	if len(tt[time.Friday]) != 0 {
		t.Error("expected no lessons on Friday")
	}
}

func TestBuildTimetableEmpty(t *testing.T) {
	tt := BuildTimetable(nil)
	if len(tt.Days()) != 0 {
		t.Errorf("expected no days, got %v", tt.Days())
	}
}
