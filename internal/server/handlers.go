package server

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bilateral/pkg/buildinfo"
	"github.com/matzehuels/bilateral/pkg/cover"
	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/input"
	"github.com/matzehuels/bilateral/pkg/output"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/store"
	"github.com/matzehuels/bilateral/pkg/team"
)

// SolveIDHeader names the archived record on non-JSON responses.
const SolveIDHeader = "X-Solve-ID"

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

type solveResponse struct {
	ID string `json:"id"`
	output.Report
	CacheHit bool          `json:"cache_hit"`
	Elapsed  time.Duration `json:"elapsed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// handleSolve accepts the text dataset format, or a JSON body when the
// request's Content-Type is application/json. Query parameters:
// friend, format (default json) and refresh.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, r, err)
		return
	}

	p, bodyFriend, err := readProjects(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := s.defaults
	opts.Logger = s.logger
	if bodyFriend != nil {
		opts.Friend = *bodyFriend
	}
	if v := r.URL.Query().Get("friend"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, r, errs.New(errs.ErrCodeInvalidOptions, "friend %q is not a number", v))
			return
		}
		opts.Friend = team.ID(id)
	}
	if v := r.URL.Query().Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, errs.New(errs.ErrCodeInvalidOptions, "refresh %q is not a boolean", v))
			return
		}
		opts.Refresh = refresh
	}

	res, err := s.runner.Solve(ctx, p, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec := store.NewRecord(p, *res)
	if err := s.store.Save(ctx, rec); err != nil {
		s.respondError(w, r, err)
		return
	}

	if format == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, solveResponse{
			ID:       rec.ID.String(),
			Report:   output.NewReport(res.Result, res.Friend),
			CacheHit: res.CacheHit,
			Elapsed:  res.Elapsed,
		})
		return
	}

	data, err := s.runner.WriteResult(ctx, p, res, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set(SolveIDHeader, rec.ID.String())
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}

// readProjects buffers the whole body first so an oversized request fails
// as such instead of as a truncated dataset.
func readProjects(r *http.Request) (*team.Projects, *team.ID, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return input.ReadJSON(bytes.NewReader(data))
	}
	p, err := input.Parse(bytes.NewReader(data))
	return p, nil, err
}

func (s *Server) handleListSolves(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, errs.New(errs.ErrCodeInvalidOptions, "limit %q must be a non-negative number", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) record(r *http.Request) (*store.Record, error) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGetSolve(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleRenderSolve draws an archived solve. format is dot or svg and
// defaults to svg.
func (s *Server) handleRenderSolve(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
		s.respondError(w, r, errs.New(errs.ErrCodeUnsupported, "format %q cannot be rendered (use dot or svg)", format))
		return
	}

	rec, err := s.record(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	p, err := rec.Projects()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := pipeline.RenderArtifact(r.Context(), p, cover.Of(rec.Members...), rec.Friend, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}
