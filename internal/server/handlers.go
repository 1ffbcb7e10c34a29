package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"source": s.src.String(),
		"build":  buildinfo.Get(),
	})
}

// handleLayout serves the node/edge list of a tree.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(chi.URLParam(r, "rootID"), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.runner.Load(r.Context(), s.src, opts.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeSuccess(w, http.StatusOK, l)
}

// handleRender serves a rendered artifact of a tree.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(chi.URLParam(r, "rootID"), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), s.src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// handleGenerations serves the persons of the first n generations below a
// person, flattened in layer order.
func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "generations must be an integer"))
		return
	}
	if err := errors.ValidateGenerations(n); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.runner.Load(r.Context(), s.src, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	members, err := pipeline.Expand(snap, id, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, members)
}

// requestOptions builds pipeline options from the server defaults and the
// query string.
func (s *Server) requestOptions(rootID string, q url.Values) (pipeline.Options, error) {
	if err := errors.ValidatePersonID(rootID); err != nil {
		return pipeline.Options{}, err
	}
	d := s.opts.Defaults
	opts := pipeline.Options{
		Roots:           []string{rootID},
		Generations:     d.Generations,
		ShowDecorations: d.ShowDecorations,
		Style:           d.Style,
		VizType:         d.VizType,
		Layout:          d.Layout,
		Logger:          s.logger,
	}

	if v := q.Get("generations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "generations must be an integer")
		}
		opts.Generations = n
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("viz"); v != "" {
		opts.VizType = v
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a number")
		}
		opts.Scale = f
	}
	for name, dst := range map[string]*bool{
		"decorations": &opts.ShowDecorations,
		"interactive": &opts.Interactive,
		"refresh":     &opts.Refresh,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean", name)
			}
			*dst = b
		}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
