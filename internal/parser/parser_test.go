package parser

import (
	"strings"
	"testing"
)

func TestParseSingleCard(t *testing.T) {
	input := `Q: What is the capital of France?
A: Paris
C: Geography basics`

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	c := cards[0]
	if c.Front != "What is the capital of France?" {
		t.Errorf("unexpected front: %q", c.Front)
	}
	if c.Back != "Paris" {
		t.Errorf("unexpected back: %q", c.Back)
	}
	if c.Context != "Geography basics" {
		t.Errorf("unexpected context: %q", c.Context)
	}
}

func TestParseMultipleCards(t *testing.T) {
	input := `Q: first front
A: first back
---
Q: second front
A: second back
`

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Front != "first front" || cards[1].Front != "second front" {
		t.Errorf("unexpected fronts: %q, %q", cards[0].Front, cards[1].Front)
	}
}

func TestParseMultilineBlocks(t *testing.T) {
	input := `Q: Conjugate "amare"
in the present tense
A: amo
amas
amat`

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Front != "Conjugate \"amare\"\nin the present tense" {
		t.Errorf("unexpected front: %q", cards[0].Front)
	}
	if cards[0].Back != "amo\namas\namat" {
		t.Errorf("unexpected back: %q", cards[0].Back)
	}
}

func TestParseNewFrontStartsNewCard(t *testing.T) {
	// No separator between cards; a new Q: still closes the previous one.
	input := `Q: one
A: 1
Q: two
A: 2`

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[1].Front != "two" || cards[1].Back != "2" {
		t.Errorf("unexpected second card: %+v", cards[1])
	}
}

func TestParseIgnoresProseAndFrontlessCards(t *testing.T) {
	input := `# My deck

Some introductory prose that is not a card.

A: an answer without a question
---
Q: real card
A: real answer`

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Front != "real card" {
		t.Errorf("unexpected front: %q", cards[0].Front)
	}
}

func TestParseEmptyInput(t *testing.T) {
	cards, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected no cards, got %d", len(cards))
	}
}
