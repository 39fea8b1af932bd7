package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/utils/errutil"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
)

type notebookResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Sources    []sourceResponse `json:"sources"`
	ChunkCount int              `json:"chunk_count"`
	CreatedAt  time.Time        `json:"created_at"`
}

type sourceResponse struct {
	Name       string    `json:"name"`
	ChunkCount int       `json:"chunk_count"`
	LinkedAt   time.Time `json:"linked_at"`
}

func toNotebookResponse(n *model.Notebook) notebookResponse {
	resp := notebookResponse{
		ID:        n.ID.String(),
		Name:      n.Name,
		Sources:   make([]sourceResponse, 0, len(n.Sources)),
		CreatedAt: n.CreatedAt,
	}
	for _, s := range n.Sources {
		resp.Sources = append(resp.Sources, sourceResponse(s))
		resp.ChunkCount += s.ChunkCount
	}
	return resp
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (s *Server) createNotebookHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	notebook, err := s.uc.CreateNotebook(r.Context(), req.Name)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusCreated, toNotebookResponse(notebook))
}

func (s *Server) listNotebooksHandler(w http.ResponseWriter, r *http.Request) {
	notebooks, err := s.uc.ListNotebooks(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := make([]notebookResponse, 0, len(notebooks))
	for _, n := range notebooks {
		resp = append(resp, toNotebookResponse(n))
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	id := types.NotebookID(chi.URLParam(r, "notebookID"))

	var req struct {
		SourceName string `json:"source_name"`
		Text       string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.SourceName == "" || req.Text == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("source_name and text are required"), http.StatusBadRequest)
		return
	}

	result, err := s.uc.Ingest(r.Context(), id, req.SourceName, req.Text)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"notebook_id": result.NotebookID.String(),
		"source_name": result.SourceName,
		"chunk_count": result.ChunkCount,
	})
}

type queryResponse struct {
	Answer  string           `json:"answer"`
	Sources []sourceMatchDTO `json:"sources"`
}

type sourceMatchDTO struct {
	SourceName string  `json:"source_name"`
	Seq        int     `json:"seq"`
	Preview    string  `json:"preview"`
	Score      float64 `json:"score"`
}

func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	id := types.NotebookID(chi.URLParam(r, "notebookID"))

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("question is required"), http.StatusBadRequest)
		return
	}

	answer, err := s.uc.Query(r.Context(), id, req.Question)
	if err != nil {
		// Provider failures surface as a visible error response, not a retry.
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := queryResponse{
		Answer:  answer.Text,
		Sources: make([]sourceMatchDTO, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceMatchDTO(src))
	}
	respondJSON(w, r, http.StatusOK, resp)
}
