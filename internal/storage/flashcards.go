package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/schulware/pult/internal/domain"
	"github.com/schulware/pult/internal/practice"
)

const flashcardColumns = `id, deck_id, front, back, context, hash,
	level, times_practiced, last_practiced_at, next_practice_at`

func scanFlashcard(row interface{ Scan(...any) error }) (domain.Flashcard, error) {
	var c domain.Flashcard
	var last, next sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.DeckID,
		&c.Front,
		&c.Back,
		&c.Context,
		&c.Hash,
		&c.Level,
		&c.TimesPracticed,
		&last,
		&next,
	)
	if err != nil {
		return domain.Flashcard{}, err
	}
	c.LastPracticedAt = timePtr(last)
	c.NextPracticeAt = timePtr(next)
	return c, nil
}

// EnsureDeck returns the id of the deck with the given name, creating
// it if necessary.
func (db *DB) EnsureDeck(name string) (int64, error) {
	var id int64
	err := db.conn.QueryRow(`SELECT id FROM decks WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up deck %s: %w", name, err)
	}

	res, err := db.conn.Exec(`INSERT INTO decks (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert deck %s: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for deck %s: %w", name, err)
	}
	return id, nil
}

// Decks retrieves all decks.
func (db *DB) Decks() ([]domain.Deck, error) {
	rows, err := db.conn.Query(`SELECT id, name, COALESCE(subject_id, 0) FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get decks: %w", err)
	}
	defer rows.Close()

	var decks []domain.Deck
	for rows.Next() {
		var d domain.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.SubjectID); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// InsertFlashcard inserts a new card at level 0 with no schedule, i.e.
// due immediately.
func (db *DB) InsertFlashcard(card domain.Flashcard, sourceID int64) error {
	_, err := db.conn.Exec(`
		INSERT INTO flashcards (deck_id, front, back, context, hash, level, times_practiced, source_id)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?)
	`,
		card.DeckID,
		card.Front,
		card.Back,
		card.Context,
		card.Hash,
		sourceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert flashcard %s: %w", card.Hash, err)
	}
	return nil
}

// FindFlashcardByHash retrieves a card by its content hash. Returns
// (nil, nil) when no card matches.
func (db *DB) FindFlashcardByHash(hash string) (*domain.Flashcard, error) {
	row := db.conn.QueryRow(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE hash = ?
	`, hash)

	c, err := scanFlashcard(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find flashcard by hash %s: %w", hash, err)
	}
	return &c, nil
}

// DeckFlashcards retrieves all cards in a deck.
func (db *DB) DeckFlashcards(deckID int64) ([]domain.Flashcard, error) {
	rows, err := db.conn.Query(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE deck_id = ?
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcards for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row for deck %d: %w", deckID, err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DueFlashcards retrieves the cards in a deck that are due at the given
// time: level 0 cards always, scheduled cards once their next practice
// time has passed (inclusive).
func (db *DB) DueFlashcards(deckID int64, now time.Time) ([]domain.Flashcard, error) {
	rows, err := db.conn.Query(`
		SELECT `+flashcardColumns+`
		FROM flashcards
		WHERE deck_id = ? AND (level = 0 OR (next_practice_at IS NOT NULL AND next_practice_at <= ?))
	`, deckID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due flashcards for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due flashcard row for deck %d: %w", deckID, err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// FlashcardsBySourceID retrieves all cards synced from a source.
func (db *DB) FlashcardsBySourceID(sourceID int64) ([]domain.Flashcard, error) {
	rows, err := db.conn.Query(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcards for source %d: %w", sourceID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row for source %d: %w", sourceID, err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DeleteFlashcardByHash removes a card by its content hash.
func (db *DB) DeleteFlashcardByHash(hash string) error {
	_, err := db.conn.Exec(`DELETE FROM flashcards WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard with hash %s: %w", hash, err)
	}
	return nil
}

// UpdateCardProgress records one practice result: it writes the
// scheduling fields computed by the practice package and increments the
// times-practiced counter. Returns ErrCardNotFound when the id no
// longer exists.
//
// The level in rev is derived from whatever level the caller last read;
// a caller holding a stale level silently overwrites a more advanced
// one. Guarding against that would need a compare-and-swap on level,
// which no caller currently wants.
func (db *DB) UpdateCardProgress(cardID int64, rev practice.Review) (domain.Flashcard, error) {
	res, err := db.conn.Exec(`
		UPDATE flashcards
		SET level = ?, times_practiced = times_practiced + 1,
		    last_practiced_at = ?, next_practice_at = ?
		WHERE id = ?
	`,
		rev.Level,
		rev.LastPracticedAt,
		rev.NextPracticeAt,
		cardID,
	)
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("failed to update progress for flashcard %d: %w", cardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("failed to check progress update for flashcard %d: %w", cardID, err)
	}
	if n == 0 {
		return domain.Flashcard{}, fmt.Errorf("flashcard %d: %w", cardID, ErrCardNotFound)
	}

	row := db.conn.QueryRow(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE id = ?
	`, cardID)
	c, err := scanFlashcard(row)
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("failed to read back flashcard %d: %w", cardID, err)
	}
	return c, nil
}
