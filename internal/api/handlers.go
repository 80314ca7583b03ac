package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/request"
	"github.com/aezell/crev/internal/source"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Reviews ---

// uploadJSON is the JSON form of a file upload, shared by REST and websocket.
type uploadJSON struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// reviewJSON is a complete review with severity counts.
type reviewJSON struct {
	model.Review
	Counts analysis.Counts `json:"counts"`
}

type reviewSummaryJSON struct {
	ID        string       `json:"id"`
	Filename  string       `json:"filename"`
	Language  string       `json:"language"`
	Status    model.Status `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Overall   *int         `json:"overall,omitempty"`
	Summary   string       `json:"summary,omitempty"`
}

type failedReviewJSON struct {
	Error  string     `json:"error"`
	Review reviewJSON `json:"review"`
}

var errTooLarge = errors.New("file exceeds upload limit")

func toReviewJSON(rev model.Review) reviewJSON {
	return reviewJSON{Review: rev, Counts: analysis.CountBySeverity(rev.Suggestions)}
}

func toSummaryJSON(rev model.Review) reviewSummaryJSON {
	out := reviewSummaryJSON{
		ID:        rev.Request.ID,
		Filename:  rev.Request.Filename,
		Language:  rev.Request.Language,
		Status:    rev.Request.Status,
		CreatedAt: rev.Request.CreatedAt,
	}
	if rev.Report != nil {
		overall := rev.Report.Overall
		out.Overall = &overall
		out.Summary = rev.Report.Summary
	}
	return out
}

// ingest turns an upload into a file descriptor, enforcing the size limit on
// the raw upload. Patches are reduced to the single file they describe.
func (s *Server) ingest(u uploadJSON) (source.File, error) {
	if strings.TrimSpace(u.Filename) == "" {
		return source.File{}, errors.New("filename is required")
	}
	size := u.SizeBytes
	if size <= 0 {
		size = int64(len(u.Content))
	}
	if s.maxUpload > 0 && size > s.maxUpload {
		return source.File{}, fmt.Errorf("%w: %s > %s", errTooLarge,
			source.FormatSize(size), source.FormatSize(s.maxUpload))
	}
	if source.IsPatch(u.Filename) {
		return source.FromPatch(u.Content)
	}
	return source.File{Name: u.Filename, SizeBytes: size, Content: u.Content}, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (uploadJSON, error) {
	if s.maxUpload > 0 {
		// Room for JSON escaping and multipart framing around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, 2*s.maxUpload+64<<10)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var u uploadJSON
		if err := readJSON(r, &u); err != nil {
			return uploadJSON{}, err
		}
		return u, nil
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return uploadJSON{}, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return uploadJSON{}, fmt.Errorf("multipart field %q: %w", "file", err)
	}
	defer file.Close()

	f, err := source.FromReader(header.Filename, file)
	if err != nil {
		return uploadJSON{}, err
	}
	return uploadJSON{Filename: f.Name, Content: f.Content, SizeBytes: f.SizeBytes}, nil
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.writeError(w, http.StatusRequestEntityTooLarge, errTooLarge.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	f, err := s.ingest(u)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rev, err := s.sess.Submit(r.Context(), f)
	if err != nil {
		var aerr *analysis.AnalysisError
		if errors.As(err, &aerr) {
			s.log.Printf("analysis failed for %s: %v", f.Name, err)
			s.writeJSON(w, http.StatusInternalServerError, failedReviewJSON{
				Error:  err.Error(),
				Review: toReviewJSON(rev),
			})
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toReviewJSON(rev))
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	history := s.sess.History()
	out := make([]reviewSummaryJSON, 0, len(history))
	for _, rev := range history {
		out = append(out, toSummaryJSON(rev))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rev, ok := s.sess.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "review not found: "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, toReviewJSON(rev))
}

// --- Languages ---

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"extensions": request.Extensions(),
		"fallback":   request.FallbackLanguage,
	})
}
