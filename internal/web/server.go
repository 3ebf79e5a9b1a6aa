// Package web is the HTMX front end: deck review sessions, the grade
// book, the timetable, and deck source management.
package web

import (
	"crypto/rand"
	"embed"
	"encoding/base32"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/schulware/pult/internal/domain"
	"github.com/schulware/pult/internal/grades"
	"github.com/schulware/pult/internal/practice"
	"github.com/schulware/pult/internal/storage"
	decksync "github.com/schulware/pult/internal/sync"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	db        *storage.DB
	router    *http.ServeMux
	templates *template.Template
	reposDir  string

	mu       sync.Mutex
	sessions map[string]practice.Session
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, reposDir string) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		db:        db,
		router:    http.NewServeMux(),
		templates: tpl,
		reposDir:  reposDir,
		sessions:  make(map[string]practice.Session),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	s.router.Handle("/static/", http.StripPrefix("/static/", fileServer))
	s.router.Handle("/", fileServer)

	// HTMX-based routes
	s.router.HandleFunc("/decks", s.handleGetDecks())
	s.router.HandleFunc("/practice/start", s.handleStartSession())
	s.router.HandleFunc("/practice/answer/", s.handleShowAnswer())
	s.router.HandleFunc("/practice/verdict/", s.handlePostVerdict())

	s.router.HandleFunc("/grades", s.handleGetGrades())
	s.router.HandleFunc("/timetable", s.handleGetTimetable())

	// Source management routes
	s.router.HandleFunc("/sources", s.handleSources())
	s.router.HandleFunc("/sources/", s.handleDeleteSource())
	s.router.HandleFunc("/sync", s.handlePostSync())
}

// handleGetDecks renders all decks with their due-card counts.
func (s *Server) handleGetDecks() http.HandlerFunc {
	type deckView struct {
		domain.Deck
		DueCount int
	}
	return func(w http.ResponseWriter, r *http.Request) {
		decks, err := s.db.Decks()
		if err != nil {
			slog.Error("failed to get decks", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		views := make([]deckView, 0, len(decks))
		for _, d := range decks {
			cards, err := s.db.DeckFlashcards(d.ID)
			if err != nil {
				slog.Error("failed to get deck cards", "deck_id", d.ID, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			views = append(views, deckView{Deck: d, DueCount: practice.CountDue(cards, now)})
		}
		s.templates.ExecuteTemplate(w, "decks", map[string]interface{}{"Decks": views})
	}
}

// handleStartSession builds a session over a deck's due cards in the
// requested mode and shows its first card.
func (s *Server) handleStartSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		deckID, err := strconv.ParseInt(r.PostFormValue("deck"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		mode := practice.Mode(r.PostFormValue("mode"))
		if mode != practice.ModeSmart && mode != practice.ModePractice {
			http.Error(w, "Invalid mode", http.StatusBadRequest)
			return
		}

		due, err := s.db.DueFlashcards(deckID, time.Now())
		if err != nil {
			slog.Error("failed to get due cards", "deck_id", deckID, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		session := practice.NewSession(due, mode)
		id := newSessionID()
		s.mu.Lock()
		s.sessions[id] = session
		s.mu.Unlock()

		s.renderSession(w, id, session)
	}
}

// handleShowAnswer renders the back of the current card.
func (s *Server) handleShowAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/practice/answer/")
		s.mu.Lock()
		session, ok := s.sessions[id]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}

		card, ok := session.Current()
		if !ok {
			s.renderSession(w, id, session)
			return
		}
		s.templates.ExecuteTemplate(w, "card_back", map[string]interface{}{
			"SessionID": id,
			"Card":      card.Card,
		})
	}
}

// handlePostVerdict advances the session by one verdict. A smart-mode
// progress write is dispatched in the background; the next card renders
// without waiting for it.
func (s *Server) handlePostVerdict() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/practice/verdict/")
		verdict := practice.Unknown
		if r.PostFormValue("verdict") == "known" {
			verdict = practice.Known
		}

		s.mu.Lock()
		session, ok := s.sessions[id]
		if !ok {
			s.mu.Unlock()
			http.NotFound(w, r)
			return
		}
		next, req := practice.Advance(session, verdict)
		s.sessions[id] = next
		if next.Complete() {
			delete(s.sessions, id)
		}
		s.mu.Unlock()

		if req != nil {
			s.dispatchProgress(*req)
		}
		s.renderSession(w, id, next)
	}
}

// dispatchProgress records one practice result in the background. A
// failure only leaves the stored schedule stale; the session has
// already moved on.
func (s *Server) dispatchProgress(req practice.ProgressRequest) {
	go func() {
		rev := practice.ApplyReview(req.Known, req.Level, time.Now())
		if _, err := s.db.UpdateCardProgress(req.CardID, rev); err != nil {
			slog.Error("failed to record practice progress, progress may not have saved",
				"card_id", req.CardID, "error", err)
		}
	}()
}

// renderSession shows the front of the current card, or the completion
// summary when every card has graduated.
func (s *Server) renderSession(w http.ResponseWriter, id string, session practice.Session) {
	if session.Complete() {
		s.templates.ExecuteTemplate(w, "session_complete", map[string]interface{}{
			"CompletedCount": session.CompletedCount(),
		})
		return
	}
	card, _ := session.Current()
	s.templates.ExecuteTemplate(w, "card_front", map[string]interface{}{
		"SessionID": id,
		"Card":      card.Card,
		"Remaining": len(session.Queue),
	})
}

// handleGetGrades recomputes every subject average from its exams,
// persists changed values, and renders the grade book with the
// school-wide average.
func (s *Server) handleGetGrades() http.HandlerFunc {
	type subjectView struct {
		Name    string
		Average string
		Snapped string
	}
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := s.db.Subjects()
		if err != nil {
			slog.Error("failed to get subjects", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		types, err := s.db.ExamTypes()
		if err != nil {
			slog.Error("failed to get exam types", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		groups, err := s.db.ExamTypeGroups()
		if err != nil {
			slog.Error("failed to get exam type groups", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		views := make([]subjectView, 0, len(subjects))
		for i, subject := range subjects {
			exams, err := s.db.ExamsForSubject(subject.ID)
			if err != nil {
				slog.Error("failed to get exams", "subject_id", subject.ID, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			avg := grades.AverageGrade(exams, types, groups)
			if !equalAverage(avg, subject.AverageGrade) {
				if err := s.db.UpdateSubjectAverage(subject.ID, avg); err != nil {
					slog.Error("failed to persist subject average", "subject_id", subject.ID, "error", err)
				}
			}
			subjects[i].AverageGrade = avg

			view := subjectView{Name: subject.Name}
			if avg != nil {
				view.Average = fmt.Sprintf("%.2f", *avg)
				view.Snapped = strconv.Itoa(grades.SnapGrade(*avg))
			}
			views = append(views, view)
		}

		var total string
		if t := grades.TotalAverageGrade(subjects); t != nil {
			total = fmt.Sprintf("%.2f", *t)
		}
		s.templates.ExecuteTemplate(w, "grades", map[string]interface{}{
			"Subjects": views,
			"Total":    total,
		})
	}
}

func equalAverage(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// handleGetTimetable renders the week from the shared timetable shape.
func (s *Server) handleGetTimetable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessons, err := s.db.Lessons()
		if err != nil {
			slog.Error("failed to get lessons", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		tt := domain.BuildTimetable(lessons)
		s.templates.ExecuteTemplate(w, "timetable", map[string]interface{}{
			"Timetable": tt,
			"Days":      tt.Days(),
		})
	}
}

// handleSources handles both GET and POST for the sources page.
func (s *Server) handleSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSources(w, r)
		case http.MethodPost:
			s.handlePostSource(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// handleGetSources renders the main sources management page.
func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.db.GetAllSources()
	if err != nil {
		slog.Error("failed to get sources", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.templates.ExecuteTemplate(w, "sources", map[string]interface{}{"Sources": sources})
}

// handlePostSource adds a new deck source and re-renders the source list.
func (s *Server) handlePostSource(w http.ResponseWriter, r *http.Request) {
	path := r.PostFormValue("path")
	if path == "" {
		http.Error(w, "Path cannot be empty", http.StatusBadRequest)
		return
	}

	sourceType := "local"
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") || strings.HasPrefix(path, "https://") {
		sourceType = "git"
	}

	if _, err := s.db.InsertSource(path, sourceType); err != nil {
		slog.Error("failed to insert source", "path", path, "error", err)
		http.Error(w, "Failed to add source", http.StatusInternalServerError)
		return
	}
	s.renderSourceList(w)
}

// handleDeleteSource deletes a source and re-renders the source list.
func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		idStr := strings.TrimPrefix(r.URL.Path, "/sources/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid source ID", http.StatusBadRequest)
			return
		}

		if err := s.db.DeleteSource(id); err != nil {
			slog.Error("failed to delete source", "source_id", id, "error", err)
			http.Error(w, "Failed to delete source", http.StatusInternalServerError)
			return
		}
		s.renderSourceList(w)
	}
}

// handlePostSync triggers a manual sync and re-renders the source list.
func (s *Server) handlePostSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Run in the foreground to make the user wait.
		if err := decksync.Run(s.db, s.reposDir); err != nil {
			slog.Error("sync failed", "error", err)
			http.Error(w, "Sync failed", http.StatusInternalServerError)
			return
		}

		s.templates.ExecuteTemplate(w, "sync_success", nil)
		s.renderSourceList(w)
	}
}

func (s *Server) renderSourceList(w http.ResponseWriter) {
	sources, err := s.db.GetAllSources()
	if err != nil {
		slog.Error("failed to get sources", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.templates.ExecuteTemplate(w, "source_list", map[string]interface{}{"Sources": sources})
}

// newSessionID returns a random identifier for an in-memory session.
func newSessionID() string {
	// Equivalent of crypto/rand.Text (Go 1.24+): base32 of 128 random bits.
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)
}
