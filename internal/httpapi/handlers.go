package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/capture"
	"github.com/idilsaglam/snaptodo/internal/model"
)

const snapshotTimeout = 2 * time.Second

var errNoSnapshot = errors.New("todo list not available")

type createTodoRequest struct {
	Title *string `json:"title"`
}

type attachImageRequest struct {
	Path string `json:"path"`
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	items, err := s.todoSnapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	respondData(w, http.StatusOK, items)
}

// createTodo accepts the write; the result shows up in the live list.
func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	if req.Title == nil {
		respondError(w, http.StatusBadRequest, errors.New("title is required"))
		return
	}
	s.svc.AddTodo(*req.Title)
	respondAccepted(w)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return
	}
	s.svc.DeleteTodo(id)
	respondAccepted(w)
}

func (s *Server) listImages(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, s.svc.ImageRefs())
}

func (s *Server) attachImage(w http.ResponseWriter, r *http.Request) {
	var req attachImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	ref, err := capture.GalleryRef(req.Path, s.cfg.Now())
	if err != nil {
		log.Debug().Err(err).Str("path", req.Path).Msg("rejected image")
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s.svc.AddImageRef(ref)
	respondData(w, http.StatusCreated, ref)
}

// todoSnapshot takes the current value of the live list.
func (s *Server) todoSnapshot(ctx context.Context) ([]model.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	select {
	case items, ok := <-s.svc.Todos(ctx):
		if !ok {
			return nil, errNoSnapshot
		}
		return items, nil
	case <-ctx.Done():
		return nil, errNoSnapshot
	}
}
