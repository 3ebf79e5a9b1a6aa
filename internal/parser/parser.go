// Package parser extracts flashcards from markdown deck files.
//
// A card is a "Q:" block followed by an "A:" block and an optional "C:"
// context block; "---" separates cards. Blocks may span multiple lines
// until the next marker.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/schulware/pult/internal/domain"
)

const (
	frontMarker   = "Q:"
	backMarker    = "A:"
	contextMarker = "C:"
	separator     = "---"
)

type section int

const (
	none section = iota
	front
	back
	context
)

// ParseFile reads a deck file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Flashcard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. Cards without a
// front are dropped.
func Parse(r io.Reader) ([]domain.Flashcard, error) {
	var (
		cards   []domain.Flashcard
		card    domain.Flashcard
		lines   []string
		current section
	)

	closeSection := func() {
		if len(lines) == 0 {
			return
		}
		text := strings.Join(lines, "\n")
		switch current {
		case front:
			card.Front = text
		case back:
			card.Back = text
		case context:
			card.Context = text
		}
		lines = nil
	}

	closeCard := func() {
		closeSection()
		if card.Front != "" {
			cards = append(cards, card)
		}
		card = domain.Flashcard{}
		current = none
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			closeCard()
			continue
		}

		marker := markerOf(line)
		if marker == none {
			if current != none {
				lines = append(lines, line)
			}
			continue
		}

		// A new front always starts a new card; any other marker just
		// ends the running section.
		if marker == front && current != none {
			closeCard()
		} else {
			closeSection()
		}
		current = marker
		lines = append(lines, markerContent(line))
	}
	closeCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func markerOf(line string) section {
	switch {
	case strings.HasPrefix(line, frontMarker):
		return front
	case strings.HasPrefix(line, backMarker):
		return back
	case strings.HasPrefix(line, contextMarker):
		return context
	}
	return none
}

// markerContent strips the two-byte marker and a single following space.
func markerContent(line string) string {
	return strings.TrimPrefix(line[2:], " ")
}
