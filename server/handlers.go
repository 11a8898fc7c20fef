/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/readmescope/readmescope/evaluate/pipeline"
	"github.com/readmescope/readmescope/resultstore"
)

// evaluateRequest is the request body of both evaluate endpoints. Exactly
// one input source is required: readme_text (may be an empty README only
// when explicitly present) or repo_url.
type evaluateRequest struct {
	ReadmeText  *string  `json:"readme_text,omitempty"`
	RepoURL     string   `json:"repo_url,omitempty"`
	Extra       string   `json:"extra,omitempty"`
	Model       string   `json:"model,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type errorResponse struct {
	Error       string   `json:"error"`
	Kind        string   `json:"kind,omitempty"`
	Stage       string   `json:"stage,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// statusFor maps the pipeline error taxonomy to HTTP status codes.
func statusFor(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindInput:
		return http.StatusBadRequest
	case pipeline.KindModelUnavailable:
		return http.StatusServiceUnavailable
	case pipeline.KindParse, pipeline.KindSchema:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// resolveRequest turns an API request into a pipeline request, fetching the
// README when a repo_url is given. The returned source labels the input for
// the result store.
func (s *Server) resolveRequest(r *http.Request, req evaluateRequest) (pipeline.Request, string, *errorResponse, int) {
	if req.RepoURL == "" && req.ReadmeText == nil {
		return pipeline.Request{}, "", &errorResponse{
			Error: "either repo_url or readme_text must be provided",
			Kind:  string(pipeline.KindInput),
		}, http.StatusBadRequest
	}

	source := "inline"
	var readme string
	if req.RepoURL != "" {
		if s.cfg.Fetcher == nil {
			return pipeline.Request{}, "", &errorResponse{
				Error: "repo_url support is not configured",
				Kind:  string(pipeline.KindInput),
			}, http.StatusBadRequest
		}
		fetched, err := s.cfg.Fetcher.Fetch(r.Context(), req.RepoURL)
		if err != nil {
			kind := pipeline.Classify(err)
			status := http.StatusBadGateway
			if kind == pipeline.KindInput {
				status = http.StatusBadRequest
			}
			return pipeline.Request{}, "", &errorResponse{
				Error: "failed to fetch README: " + err.Error(),
				Kind:  string(kind),
			}, status
		}
		readme = fetched.Content
		source = req.RepoURL
	} else {
		readme = *req.ReadmeText
	}

	return pipeline.Request{
		Readme:      readme,
		Extra:       req.Extra,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, source, nil, 0
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: string(pipeline.KindInput)})
		return
	}

	pipelineReq, source, errResp, status := s.resolveRequest(r, req)
	if errResp != nil {
		writeError(w, r, status, *errResp)
		return
	}

	outcome, err := s.cfg.Pipeline.Evaluate(r.Context(), pipelineReq)
	if err != nil {
		kind := pipeline.Classify(err)
		writeError(w, r, statusFor(kind), errorResponse{
			Error:       err.Error(),
			Kind:        string(kind),
			Stage:       stageOf(err),
			Suggestions: pipeline.Suggestions(err),
		})
		return
	}

	s.saveRecord(r, outcome, source, req.Model)
	render.JSON(w, r, outcome)
}

func (s *Server) handleEvaluateStream(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: string(pipeline.KindInput)})
		return
	}

	pipelineReq, source, errResp, status := s.resolveRequest(r, req)
	if errResp != nil {
		writeError(w, r, status, *errResp)
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	var finished *pipeline.Outcome
	s.cfg.Pipeline.Stream(r.Context(), pipelineReq, func(event pipeline.StreamEvent) {
		if event.Type == pipeline.EventRendered {
			if job, ok := s.cfg.Pipeline.Job(event.JobID); ok {
				finished = &pipeline.Outcome{JobID: job.ID, Result: job.Result, Rendered: job.Rendered}
			}
		}
		if err := sse.send(string(event.Type), event); err != nil {
			// Client went away; the pipeline context is tied to the request
			// and will cancel the in-flight call.
			clog.FromContext(r.Context()).Warnf("dropping stream event: %v", err)
		}
	})

	if finished != nil {
		s.saveRecord(r, finished, source, req.Model)
	}
}

// saveRecord persists a completed evaluation. Persistence failures are
// logged, never surfaced: the evaluation already succeeded.
func (s *Server) saveRecord(r *http.Request, outcome *pipeline.Outcome, source, model string) {
	if s.cfg.Store == nil {
		return
	}
	record := resultstore.Record{
		ID:        outcome.JobID,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Model:     model,
		Result:    outcome.Result,
		Rendered:  outcome.Rendered,
	}
	if err := s.cfg.Store.Save(r.Context(), record); err != nil {
		clog.FromContext(r.Context()).With("job", outcome.JobID).Errorf("saving evaluation record: %v", err)
	}
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.cfg.Pipeline.Job(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}
	render.JSON(w, r, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"jobs": s.cfg.Pipeline.Jobs()})
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer", Kind: string(pipeline.KindInput)})
			return
		}
		limit = n
	}
	records, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if records == nil {
		records = []resultstore.Record{}
	}
	render.JSON(w, r, map[string]any{"evaluations": records})
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, errorResponse{Error: "evaluation not found"})
		return
	}
	render.JSON(w, r, record)
}

func (s *Server) handleTaxonomySchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write([]byte(s.cfg.Pipeline.SchemaText()))
}

func (s *Server) handleEventsSchema(w http.ResponseWriter, r *http.Request) {
	data, err := eventsSchemaJSON()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func stageOf(err error) string {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return string(stageErr.Stage)
	}
	return ""
}
