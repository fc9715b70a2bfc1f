package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
	"github.com/matzehuels/circlepack/pkg/observability"
	"github.com/matzehuels/circlepack/pkg/pipeline"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type packRequest struct {
	layout.Input
	Refresh bool `json:"refresh,omitempty"`
}

type layoutResponse struct {
	Layout layout.Layout `json:"layout"`
	Cached bool          `json:"cached"`
}

type batchRequest struct {
	Jobs []batchJob `json:"jobs"`
}

type batchJob struct {
	ID string `json:"id,omitempty"`
	layout.Input
}

type batchResponse struct {
	BatchID string        `json:"batch_id"`
	Results []batchResult `json:"results"`
}

type batchResult struct {
	ID     string         `json:"id"`
	Layout *layout.Layout `json:"layout,omitempty"`
	Cached bool           `json:"cached"`
	Error  *errorBody     `json:"error,omitempty"`
}

type cardsRequest struct {
	// Cards is an array of cards or an object keyed by card name.
	Cards  json.RawMessage `json:"cards"`
	Width  float64         `json:"width,omitempty"`
	Height float64         `json:"height,omitempty"`
	Gap    float64         `json:"gap,omitempty"`
	Seed   uint64          `json:"seed,omitempty"`
}

type keywordsRequest struct {
	Keywords  map[string]map[string]float64   `json:"keywords"`
	Clusters  map[string]keywords.ClusterInfo `json:"clusters"`
	Threshold float64                         `json:"threshold,omitempty"`
	Padding   float64                         `json:"padding,omitempty"`
	Width     float64                         `json:"width,omitempty"`
	Height    float64                         `json:"height,omitempty"`
	Seed      uint64                          `json:"seed,omitempty"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) pack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := s.opts.Defaults
	opts.Refresh = req.Refresh
	if req.Ratio != 0 {
		opts.Ratio = req.Ratio
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}

	l, hit, err := s.runner.PackWithCacheInfo(r.Context(), req.Radii, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: l, Cached: hit})
}

func (s *Server) packBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Jobs) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "at least one job is required"))
		return
	}
	if len(req.Jobs) > maxBatchJobs {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many jobs: %d (max %d)", len(req.Jobs), maxBatchJobs))
		return
	}

	jobs := make([]pipeline.Job, len(req.Jobs))
	for i, j := range req.Jobs {
		id := j.ID
		if id == "" {
			id = uuid.New().String()
		}
		jobs[i] = pipeline.Job{ID: id, Input: j.Input}
	}

	results, err := s.runner.PackBatch(r.Context(), jobs, s.opts.Defaults, s.opts.BatchLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := batchResponse{
		BatchID: uuid.New().String(),
		Results: make([]batchResult, len(results)),
	}
	for i, res := range results {
		out := batchResult{ID: res.ID, Cached: res.Cached}
		if res.Err != nil {
			out.Error = &errorBody{Code: codeOf(res.Err), Message: errors.UserMessage(res.Err)}
		} else {
			l := res.Layout
			out.Layout = &l
		}
		resp.Results[i] = out
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) cards(w http.ResponseWriter, r *http.Request) {
	var req cardsRequest
	if !s.decode(w, r, &req) {
		return
	}
	cs, err := cards.Parse(req.Cards)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.opts.Defaults
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Height != 0 {
		opts.Height = req.Height
	}
	if req.Gap != 0 {
		opts.Gap = req.Gap
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}

	l, hit, err := s.runner.CardsWithCacheInfo(r.Context(), cs, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: l, Cached: hit})
}

func (s *Server) keywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.opts.Defaults
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Height != 0 {
		opts.Height = req.Height
	}
	if req.Threshold != 0 {
		opts.Threshold = req.Threshold
	}
	if req.Padding != 0 {
		opts.Padding = req.Padding
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}

	ds := keywords.Dataset{Keywords: req.Keywords, Clusters: req.Clusters}
	l, hit, err := s.runner.KeywordsWithCacheInfo(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: l, Cached: hit})
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v. On failure it writes an error response
// and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", maxBodyBytes))
			return false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := codeOf(err)
	status := errors.HTTPStatus(code)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: errors.UserMessage(err)}})
}

// codeOf returns err's code, or INTERNAL_ERROR for errors without one.
func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
