// Package sync reconciles configured deck sources with the stored
// flashcards: new cards are inserted at level 0 (due immediately),
// cards that disappeared from their source are deleted, and their
// scheduling state survives content-neutral edits via the content hash.
package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/schulware/pult/internal/cardid"
	"github.com/schulware/pult/internal/gitsource"
	"github.com/schulware/pult/internal/parser"
	"github.com/schulware/pult/internal/storage"
)

// Run iterates over all sources and reconciles them. Git sources are
// mirrored into reposDir first and then walked like local directories.
func Run(db *storage.DB, reposDir string) error {
	slog.Info("starting deck sync for all sources")
	sources, err := db.GetAllSources()
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("no deck sources configured")
		return nil
	}

	if err := os.MkdirAll(reposDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		walkPath := source.Path
		if source.Type == "git" {
			localPath, err := gitURLToLocalPath(reposDir, source.Path)
			if err != nil {
				slog.Error("could not determine local path for git source", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localPath); err != nil {
				slog.Error("failed to sync git source", "url", source.Path, "error", err)
				continue
			}
			walkPath = localPath
		}

		reconcile(db, source, walkPath)
	}
	slog.Info("deck sync complete")
	return nil
}

func reconcile(db *storage.DB, source storage.Source, root string) {
	deckID, err := db.EnsureDeck(deckName(source))
	if err != nil {
		slog.Error("failed to ensure deck for source", "source_id", source.ID, "error", err)
		return
	}

	var parsed, inserted int
	var problems []error
	found := make(map[string]bool)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			problems = append(problems, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, card := range cards {
			card.DeckID = deckID
			card.Hash = cardid.Hash(card)
			parsed++
			found[card.Hash] = true

			existing, findErr := db.FindFlashcardByHash(card.Hash)
			if findErr != nil {
				problems = append(problems, fmt.Errorf("db check for %s: %w", card.Hash, findErr))
				continue
			}
			if existing != nil {
				continue
			}
			if insertErr := db.InsertFlashcard(card, source.ID); insertErr != nil {
				problems = append(problems, fmt.Errorf("db insert for %s: %w", card.Hash, insertErr))
				continue
			}
			inserted++
		}
		return nil
	})
	if walkErr != nil {
		slog.Error("error walking source directory", "path", root, "error", walkErr)
		return
	}

	stored, err := db.FlashcardsBySourceID(source.ID)
	if err != nil {
		slog.Error("error getting cards for source", "source_id", source.ID, "error", err)
		return
	}

	var orphaned int
	for _, card := range stored {
		if found[card.Hash] {
			continue
		}
		orphaned++
		if err := db.DeleteFlashcardByHash(card.Hash); err != nil {
			slog.Warn("failed to delete orphaned card", "hash", card.Hash, "error", err)
		}
	}

	if err := db.UpdateSourceLastScanned(source.ID); err != nil {
		slog.Warn("failed to update last scanned for source", "source_id", source.ID, "error", err)
	}

	slog.Info("source reconciled",
		"path", root,
		"parsed_cards", parsed,
		"inserted", inserted,
		"orphaned_deleted", orphaned,
		"errors", len(problems),
	)
}

// deckName derives the deck a source feeds: the repository or directory
// base name.
func deckName(source storage.Source) string {
	name := strings.TrimSuffix(source.Path, ".git")
	name = strings.TrimRight(name, "/")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return source.Path
	}
	return name
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		repoPath := strings.TrimSuffix(parsed.Path, ".git")
		return filepath.Join(baseDir, parsed.Host, repoPath), nil
	}

	// scp-like syntax: git@host:owner/repo.git
	if strings.Contains(repoURL, "@") {
		parts := strings.Split(repoURL, ":")
		if len(parts) == 2 {
			hostAndUser := strings.Split(parts[0], "@")
			if len(hostAndUser) == 2 {
				repoPath := strings.TrimSuffix(parts[1], ".git")
				return filepath.Join(baseDir, hostAndUser[1], repoPath), nil
			}
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
