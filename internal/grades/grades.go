// Package grades implements the two-tier weighted grade averaging used
// for subject and school-wide report figures.
//
// Exams are weighted inside their exam-type group by the type's weight,
// group averages are weighted against each other by the group's weight,
// and per-subject averages are snapped to whole report-card grades
// before the school-wide mean is taken. All functions are pure; data
// quality problems (ungraded exams, dangling references) are excluded
// silently rather than reported, since partial data is the normal case.
package grades

import (
	"math"

	"github.com/schulware/pult/internal/domain"
)

type weightedGrade struct {
	grade  float64
	weight float64
}

// AverageGrade computes one subject's average from its exams, weighted
// first within each exam-type group and then across groups. It returns
// nil when no average can be computed: any input list empty, or no exam
// resolved to a graded entry in a known group. The result is rounded to
// two decimals.
func AverageGrade(exams []domain.Exam, types []domain.ExamType, groups []domain.ExamTypeGroup) *float64 {
	if len(exams) == 0 || len(types) == 0 || len(groups) == 0 {
		return nil
	}

	typeByID := make(map[int64]domain.ExamType, len(types))
	for _, t := range types {
		typeByID[t.ID] = t
	}

	buckets := make(map[int64][]weightedGrade, len(groups))
	for _, exam := range exams {
		if exam.Grade == nil {
			continue // not yet graded
		}
		et, ok := typeByID[exam.ExamTypeID]
		if !ok {
			continue // dangling type reference, excluded
		}
		buckets[et.GroupID] = append(buckets[et.GroupID], weightedGrade{
			grade:  *exam.Grade,
			weight: orOne(et.Weight),
		})
	}

	var sum, weightSum float64
	for _, group := range groups {
		entries := buckets[group.ID]
		if len(entries) == 0 {
			continue // empty group contributes nothing, not a zero
		}
		var gs, ws float64
		for _, e := range entries {
			gs += e.grade * e.weight
			ws += e.weight
		}
		w := orOne(group.Weight)
		sum += (gs / ws) * w
		weightSum += w
	}
	if weightSum == 0 {
		return nil
	}

	avg := round2(sum / weightSum)
	return &avg
}

// TotalAverageGrade aggregates cached subject averages into one
// school-wide figure: each subject average is snapped to a whole grade
// via SnapGrade, then the plain mean of those integers is returned
// unrounded. Subjects without a cached average are skipped; nil when
// none remain.
func TotalAverageGrade(subjects []domain.Subject) *float64 {
	var sum float64
	var n int
	for _, s := range subjects {
		if s.AverageGrade == nil {
			continue
		}
		sum += float64(SnapGrade(*s.AverageGrade))
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// SnapGrade converts a fractional average to the whole report-card
// grade it counts as. Exactly 1.5 snaps to 1, the better grade on this
// scale; otherwise a fractional part above 0.5 rounds up and anything
// up to and including 0.5 rounds down.
func SnapGrade(g float64) int {
	if g == 1.5 {
		return 1
	}
	floor := math.Floor(g)
	if g-floor > 0.5 {
		return int(floor) + 1
	}
	return int(floor)
}

func orOne(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
