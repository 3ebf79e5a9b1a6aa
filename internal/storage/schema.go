package storage

const schema = `
-- Subjects cache the average grade recomputed whenever their exam set changes.
CREATE TABLE IF NOT EXISTS subjects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    average_grade REAL
);

-- Weighted buckets of exam types (e.g. written vs oral).
CREATE TABLE IF NOT EXISTS exam_type_groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS exam_types (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 1,
    group_id INTEGER NOT NULL,

    FOREIGN KEY(group_id) REFERENCES exam_type_groups(id)
);

-- Exams stay ungraded (grade NULL) until returned.
CREATE TABLE IF NOT EXISTS exams (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject_id INTEGER NOT NULL,
    exam_type_id INTEGER NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    date_written DATETIME NOT NULL,
    date_returned DATETIME,
    grade REAL,
    grade_modifier TEXT NOT NULL DEFAULT 'none',

    FOREIGN KEY(subject_id) REFERENCES subjects(id),
    FOREIGN KEY(exam_type_id) REFERENCES exam_types(id)
);

CREATE TABLE IF NOT EXISTS decks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    subject_id INTEGER
);

-- Flashcards carry their spaced-repetition state. New cards start at
-- level 0 with no timestamps, i.e. due immediately.
CREATE TABLE IF NOT EXISTS flashcards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_id INTEGER NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    context TEXT NOT NULL DEFAULT '',
    hash TEXT NOT NULL UNIQUE,
    level INTEGER NOT NULL DEFAULT 0,
    times_practiced INTEGER NOT NULL DEFAULT 0,
    last_practiced_at DATETIME,
    next_practice_at DATETIME,
    source_id INTEGER,

    FOREIGN KEY(deck_id) REFERENCES decks(id),
    FOREIGN KEY(source_id) REFERENCES sources(id)
);

-- Sources track where synced deck content comes from: a local directory
-- or a git repository of markdown files.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned DATETIME
);

CREATE TABLE IF NOT EXISTS lessons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject_id INTEGER NOT NULL,
    weekday INTEGER NOT NULL,
    starts_at TEXT NOT NULL,
    ends_at TEXT NOT NULL,
    room TEXT NOT NULL DEFAULT '',

    FOREIGN KEY(subject_id) REFERENCES subjects(id)
);
`
