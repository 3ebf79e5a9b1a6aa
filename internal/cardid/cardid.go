// Package cardid derives a stable content identity for flashcards, so
// sync can recognize the same card across files and cosmetic edits.
package cardid

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/schulware/pult/internal/domain"
)

// Normalize joins the card's content fields after cleaning each one:
// lowercased, whitespace-trimmed, line endings unified. Fields are
// joined with a newline so content cannot run together across field
// boundaries.
func Normalize(card domain.Flashcard) string {
	clean := func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimSpace(s)
		return strings.ReplaceAll(s, "\r\n", "\n")
	}
	return strings.Join([]string{clean(card.Front), clean(card.Back), clean(card.Context)}, "\n")
}

// Hash returns the SHA-256 of the normalized card content as a hex string.
func Hash(card domain.Flashcard) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}
