package grades

import (
	"math"
	"testing"

	"github.com/schulware/pult/internal/domain"
)

func gradePtr(g float64) *float64 { return &g }

func TestAverageGradeEmptyInputs(t *testing.T) {
	exam := domain.Exam{ID: 1, ExamTypeID: 1, Grade: gradePtr(4)}
	et := domain.ExamType{ID: 1, Weight: 1, GroupID: 1}
	group := domain.ExamTypeGroup{ID: 1, Weight: 1}

	cases := []struct {
		name   string
		exams  []domain.Exam
		types  []domain.ExamType
		groups []domain.ExamTypeGroup
	}{
		{"no exams", nil, []domain.ExamType{et}, []domain.ExamTypeGroup{group}},
		{"no types", []domain.Exam{exam}, nil, []domain.ExamTypeGroup{group}},
		{"no groups", []domain.Exam{exam}, []domain.ExamType{et}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AverageGrade(tc.exams, tc.types, tc.groups); got != nil {
				t.Errorf("expected nil average, got %v", *got)
			}
		})
	}
}

func TestAverageGradeWeightedMean(t *testing.T) {
	types := []domain.ExamType{
		{ID: 1, Name: "quiz", Weight: 1, GroupID: 10},
		{ID: 2, Name: "exam", Weight: 3, GroupID: 10},
	}
	groups := []domain.ExamTypeGroup{{ID: 10, Name: "written", Weight: 1}}
	exams := []domain.Exam{
		{ID: 1, ExamTypeID: 1, Grade: gradePtr(2)},
		{ID: 2, ExamTypeID: 2, Grade: gradePtr(4)},
	}

	got := AverageGrade(exams, types, groups)
	if got == nil {
		t.Fatal("expected an average, got nil")
	}
	// (2*1 + 4*3) / (1 + 3) = 3.5
	if *got != 3.5 {
		t.Errorf("expected 3.5, got %v", *got)
	}
}

func TestAverageGradeTwoTier(t *testing.T) {
	types := []domain.ExamType{
		{ID: 1, Weight: 1, GroupID: 10},
		{ID: 2, Weight: 1, GroupID: 20},
	}
	groups := []domain.ExamTypeGroup{
		{ID: 10, Name: "written", Weight: 2},
		{ID: 20, Name: "oral", Weight: 1},
	}
	exams := []domain.Exam{
		{ID: 1, ExamTypeID: 1, Grade: gradePtr(5)},
		{ID: 2, ExamTypeID: 2, Grade: gradePtr(2)},
	}

	got := AverageGrade(exams, types, groups)
	if got == nil {
		t.Fatal("expected an average, got nil")
	}
	// (5*2 + 2*1) / 3 = 4
	if *got != 4 {
		t.Errorf("expected 4, got %v", *got)
	}
}

func TestAverageGradeExcludesBadExams(t *testing.T) {
	types := []domain.ExamType{{ID: 1, Weight: 1, GroupID: 10}}
	groups := []domain.ExamTypeGroup{{ID: 10, Weight: 1}}
	exams := []domain.Exam{
		{ID: 1, ExamTypeID: 1, Grade: gradePtr(3)},
	}

	base := AverageGrade(exams, types, groups)
	if base == nil || *base != 3 {
		t.Fatalf("expected baseline average 3, got %v", base)
	}

	t.Run("ungraded exam ignored", func(t *testing.T) {
		withUngraded := append(exams, domain.Exam{ID: 2, ExamTypeID: 1, Grade: nil})
		got := AverageGrade(withUngraded, types, groups)
		if got == nil || *got != *base {
			t.Errorf("ungraded exam changed result: %v", got)
		}
	})

	t.Run("dangling type reference ignored", func(t *testing.T) {
		withDangling := append(exams, domain.Exam{ID: 3, ExamTypeID: 999, Grade: gradePtr(1)})
		got := AverageGrade(withDangling, types, groups)
		if got == nil || *got != *base {
			t.Errorf("dangling exam changed result: %v", got)
		}
	})

	t.Run("only excluded exams yields nil", func(t *testing.T) {
		onlyBad := []domain.Exam{
			{ID: 2, ExamTypeID: 1, Grade: nil},
			{ID: 3, ExamTypeID: 999, Grade: gradePtr(1)},
		}
		if got := AverageGrade(onlyBad, types, groups); got != nil {
			t.Errorf("expected nil, got %v", *got)
		}
	})
}

func TestAverageGradeZeroWeightDefaultsToOne(t *testing.T) {
	types := []domain.ExamType{
		{ID: 1, Weight: 0, GroupID: 10}, // treated as weight 1
		{ID: 2, Weight: 1, GroupID: 10},
	}
	groups := []domain.ExamTypeGroup{{ID: 10, Weight: 0}} // treated as weight 1
	exams := []domain.Exam{
		{ID: 1, ExamTypeID: 1, Grade: gradePtr(2)},
		{ID: 2, ExamTypeID: 2, Grade: gradePtr(4)},
	}

	got := AverageGrade(exams, types, groups)
	if got == nil || *got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestAverageGradeRoundsToTwoDecimals(t *testing.T) {
	types := []domain.ExamType{{ID: 1, Weight: 1, GroupID: 10}}
	groups := []domain.ExamTypeGroup{{ID: 10, Weight: 1}}
	exams := []domain.Exam{
		{ID: 1, ExamTypeID: 1, Grade: gradePtr(4)},
		{ID: 2, ExamTypeID: 1, Grade: gradePtr(4)},
		{ID: 3, ExamTypeID: 1, Grade: gradePtr(5)},
	}

	got := AverageGrade(exams, types, groups)
	if got == nil {
		t.Fatal("expected an average, got nil")
	}
	// 13/3 = 4.3333... rounds to 4.33
	if *got != 4.33 {
		t.Errorf("expected 4.33, got %v", *got)
	}
}

func TestSnapGrade(t *testing.T) {
	cases := []struct {
		grade float64
		want  int
	}{
		{1.5, 1}, // exactly 1.5 counts as the better grade
		{2.5, 2}, // fractional part 0.5 is not > 0.5
		{2.51, 3},
		{2.49, 2},
		{4.0, 4},
		{5.75, 6},
	}
	for _, tc := range cases {
		if got := SnapGrade(tc.grade); got != tc.want {
			t.Errorf("SnapGrade(%v) = %d, want %d", tc.grade, got, tc.want)
		}
	}
}

func TestTotalAverageGrade(t *testing.T) {
	t.Run("no cached averages", func(t *testing.T) {
		subjects := []domain.Subject{{ID: 1}, {ID: 2}}
		if got := TotalAverageGrade(subjects); got != nil {
			t.Errorf("expected nil, got %v", *got)
		}
	})

	t.Run("mean of snapped grades is not rounded further", func(t *testing.T) {
		subjects := []domain.Subject{
			{ID: 1, AverageGrade: gradePtr(1.5)},  // snaps to 1
			{ID: 2, AverageGrade: gradePtr(2.51)}, // snaps to 3
			{ID: 3, AverageGrade: gradePtr(3.2)},  // snaps to 3
			{ID: 4},                               // no average, skipped
		}
		got := TotalAverageGrade(subjects)
		if got == nil {
			t.Fatal("expected an average, got nil")
		}
		want := 7.0 / 3.0
		if math.Abs(*got-want) > 1e-9 {
			t.Errorf("expected %v, got %v", want, *got)
		}
	})
}
