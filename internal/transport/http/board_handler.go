package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dinariox/quiz-conquest-backend/internal/app"
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// BoardRepository serves the current question set (cached).
type BoardRepository interface {
	GetBoard(ctx context.Context) ([]domain.Category, error)
	Invalidate()
}

// BoardSaver writes an edited question set back to its store.
type BoardSaver interface {
	SaveBoard(ctx context.Context, board domain.Board) error
}

// BoardHandler exposes the board editor endpoints: load/save the question set
// and image upload for image questions. saver may be nil when the configured
// board store is read-only; saving is then rejected.
type BoardHandler struct {
	game      *app.Game
	boards    BoardRepository
	saver     BoardSaver
	publicDir string
}

func NewBoardHandler(game *app.Game, boards BoardRepository, saver BoardSaver, publicDir string) *BoardHandler {
	return &BoardHandler{game: game, boards: boards, saver: saver, publicDir: publicDir}
}

// LoadQuestions serves the current board as JSON.
func (h *BoardHandler) LoadQuestions(w http.ResponseWriter, r *http.Request) {
	categories, err := h.boards.GetBoard(r.Context())
	if err != nil {
		log.Printf("serving questions failed: %v", err)
		http.Error(w, "failed to load questions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(domain.Board{Categories: categories})
}

// SaveQuestions persists an edited board and hot-reloads it into the running
// match. A failed save or reload leaves the prior board in place and is
// surfaced to the requester only.
func (h *BoardHandler) SaveQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.saver == nil {
		http.Error(w, "board editing is disabled", http.StatusServiceUnavailable)
		return
	}

	var board domain.Board
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		http.Error(w, "invalid board payload", http.StatusBadRequest)
		return
	}
	if err := h.saver.SaveBoard(r.Context(), board); err != nil {
		log.Printf("writing questions failed: %v", err)
		http.Error(w, "failed to save questions", http.StatusInternalServerError)
		return
	}
	log.Printf("written questions")

	h.boards.Invalidate()
	categories, err := h.boards.GetBoard(r.Context())
	if err != nil {
		log.Printf("reloading questions failed: %v", err)
		http.Error(w, "failed to reload questions", http.StatusInternalServerError)
		return
	}
	h.game.Enqueue("", app.ReplaceBoardAction{Categories: categories})
	w.WriteHeader(http.StatusOK)
}

// UploadImage stores an uploaded file in the public directory so image
// questions can reference it.
func (h *BoardHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.publicDir, 0o755); err != nil {
		http.Error(w, "failed to store file", http.StatusInternalServerError)
		return
	}
	// Base strips any path components a client might smuggle into the name.
	name := filepath.Base(header.Filename)
	dst, err := os.Create(filepath.Join(h.publicDir, name))
	if err != nil {
		http.Error(w, "failed to store file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "failed to store file", http.StatusInternalServerError)
		return
	}
	log.Printf("stored uploaded image: %s", name)
	w.WriteHeader(http.StatusOK)
}
