package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/schulware/pult/internal/domain"
)

// Subjects retrieves all subjects with their cached average grades.
func (db *DB) Subjects() ([]domain.Subject, error) {
	rows, err := db.conn.Query(`SELECT id, name, average_grade FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var s domain.Subject
		var avg sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Name, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		s.AverageGrade = floatPtr(avg)
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// InsertSubject creates a subject and returns its id.
func (db *DB) InsertSubject(name string) (int64, error) {
	res, err := db.conn.Exec(`INSERT INTO subjects (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert subject %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for subject %s: %w", name, err)
	}
	return id, nil
}

// UpdateSubjectAverage writes the freshly computed average for a
// subject. A nil average clears the cache. Callers are expected to
// compare against the stored value first and skip unchanged writes.
func (db *DB) UpdateSubjectAverage(subjectID int64, average *float64) error {
	_, err := db.conn.Exec(`
		UPDATE subjects SET average_grade = ? WHERE id = ?
	`, nullFloat(average), subjectID)
	if err != nil {
		return fmt.Errorf("failed to update average for subject %d: %w", subjectID, err)
	}
	return nil
}

// ExamsForSubject retrieves all exams of one subject, graded or not.
func (db *DB) ExamsForSubject(subjectID int64) ([]domain.Exam, error) {
	rows, err := db.conn.Query(`
		SELECT id, subject_id, exam_type_id, name, date_written, date_returned, grade, grade_modifier
		FROM exams WHERE subject_id = ? ORDER BY id
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exams for subject %d: %w", subjectID, err)
	}
	defer rows.Close()

	var exams []domain.Exam
	for rows.Next() {
		var e domain.Exam
		var returned sql.NullTime
		var grade sql.NullFloat64
		var modifier string
		if err := rows.Scan(
			&e.ID,
			&e.SubjectID,
			&e.ExamTypeID,
			&e.Name,
			&e.DateWritten,
			&returned,
			&grade,
			&modifier,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exam row for subject %d: %w", subjectID, err)
		}
		e.DateReturned = timePtr(returned)
		e.Grade = floatPtr(grade)
		e.GradeModifier = domain.GradeModifier(modifier)
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// InsertExam creates an exam and returns its id. Grade may be nil for
// an exam that has not been returned yet.
func (db *DB) InsertExam(e domain.Exam) (int64, error) {
	if e.GradeModifier == "" {
		e.GradeModifier = domain.ModifierNone
	}
	res, err := db.conn.Exec(`
		INSERT INTO exams (subject_id, exam_type_id, name, date_written, date_returned, grade, grade_modifier)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.SubjectID,
		e.ExamTypeID,
		e.Name,
		e.DateWritten,
		nullTime(e.DateReturned),
		nullFloat(e.Grade),
		string(e.GradeModifier),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert exam: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for exam: %w", err)
	}
	return id, nil
}

// ExamTypes retrieves all exam types.
func (db *DB) ExamTypes() ([]domain.ExamType, error) {
	rows, err := db.conn.Query(`SELECT id, name, weight, group_id FROM exam_types`)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam types: %w", err)
	}
	defer rows.Close()

	var types []domain.ExamType
	for rows.Next() {
		var t domain.ExamType
		if err := rows.Scan(&t.ID, &t.Name, &t.Weight, &t.GroupID); err != nil {
			return nil, fmt.Errorf("failed to scan exam type row: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// InsertExamType creates an exam type and returns its id.
func (db *DB) InsertExamType(t domain.ExamType) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO exam_types (name, weight, group_id) VALUES (?, ?, ?)
	`, t.Name, t.Weight, t.GroupID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert exam type %s: %w", t.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for exam type %s: %w", t.Name, err)
	}
	return id, nil
}

// ExamTypeGroups retrieves all exam type groups.
func (db *DB) ExamTypeGroups() ([]domain.ExamTypeGroup, error) {
	rows, err := db.conn.Query(`SELECT id, name, weight FROM exam_type_groups`)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam type groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.ExamTypeGroup
	for rows.Next() {
		var g domain.ExamTypeGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan exam type group row: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// InsertExamTypeGroup creates an exam type group and returns its id.
func (db *DB) InsertExamTypeGroup(g domain.ExamTypeGroup) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO exam_type_groups (name, weight) VALUES (?, ?)
	`, g.Name, g.Weight)
	if err != nil {
		return 0, fmt.Errorf("failed to insert exam type group %s: %w", g.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for exam type group %s: %w", g.Name, err)
	}
	return id, nil
}

// Lessons retrieves all timetable lessons joined with their subject names.
func (db *DB) Lessons() ([]domain.Lesson, error) {
	rows, err := db.conn.Query(`
		SELECT l.id, l.subject_id, s.name, l.weekday, l.starts_at, l.ends_at, l.room
		FROM lessons l JOIN subjects s ON s.id = l.subject_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		var weekday int
		if err := rows.Scan(&l.ID, &l.SubjectID, &l.Subject, &weekday, &l.StartsAt, &l.EndsAt, &l.Room); err != nil {
			return nil, fmt.Errorf("failed to scan lesson row: %w", err)
		}
		l.Weekday = time.Weekday(weekday)
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// InsertLesson creates a timetable lesson and returns its id.
func (db *DB) InsertLesson(l domain.Lesson) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO lessons (subject_id, weekday, starts_at, ends_at, room)
		VALUES (?, ?, ?, ?, ?)
	`, l.SubjectID, int(l.Weekday), l.StartsAt, l.EndsAt, l.Room)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lesson: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for lesson: %w", err)
	}
	return id, nil
}
