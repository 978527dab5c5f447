package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/swiftblocks/internal/schemas"
	"github.com/jonathan/swiftblocks/internal/store"
	"github.com/jonathan/swiftblocks/internal/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTranslate converts JavaScript to Swift
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req types.TranslateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.TranslateResponse{Swift: s.exports.Translate(req.JavaScript)})
}

// handleCreateExport materializes and stores a project
func (s *Server) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := schemas.Validate(schemas.ExportRequest, body); err != nil {
		s.failure(w, err)
		return
	}

	var req types.ExportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.failure(w, &ErrBadRequest{Message: "Invalid request body: " + err.Error()})
		return
	}

	rec, err := s.exports.Export(r.Context(), req)
	if err != nil {
		s.failure(w, err)
		return
	}
	log.Printf("[export] %s stored as %s (%d bytes)", rec.FileName, rec.ID, rec.Size)

	w.Header().Set("Location", "/exports/"+rec.ID)
	s.jsonResponse(w, http.StatusCreated, rec)
}

// handleListExports lists recent exports
func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.failure(w, &ErrBadRequest{Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.exports.List(r.Context(), limit)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"exports": records, "count": len(records)})
}

// handleGetExport returns one export record
func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.exports.Get(r.Context(), id)
	if err != nil {
		s.failure(w, notFound(id, err))
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleDownloadExport streams the zip of an export
func (s *Server) handleDownloadExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.exports.Get(r.Context(), id)
	if err != nil {
		s.failure(w, notFound(id, err))
		return
	}
	archive, err := s.exports.Archive(r.Context(), id)
	if err != nil {
		s.failure(w, notFound(id, err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		log.Printf("Error writing archive %s: %v", id, err)
	}
}

func notFound(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &ErrExportNotFound{ID: id}
	}
	return err
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrBadRequest{Message: "Invalid request body: " + err.Error()}
	}
	return body, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrBadRequest{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}
