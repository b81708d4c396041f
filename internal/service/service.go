// Package service wires the query pipeline behind the HTTP surface: parse
// the request, translate it into a plan, run it against the catalog, and
// serialize the result as a VOTable.
package service

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/skysurvey-io/sia-obscore/internal/cache"
	"github.com/skysurvey-io/sia-obscore/internal/cache/keys"
	"github.com/skysurvey-io/sia-obscore/internal/obscore"
	"github.com/skysurvey-io/sia-obscore/internal/observability"
	"github.com/skysurvey-io/sia-obscore/internal/query"
	"github.com/skysurvey-io/sia-obscore/internal/sia"
	"github.com/skysurvey-io/sia-obscore/internal/votable"
)

const contentType = "text/xml"

const resultDescription = "ObsCore query results"

type Catalog interface {
	Search(ctx context.Context, plan query.Plan) ([]obscore.Record, error)
}

type Handler struct {
	logger         *slog.Logger
	catalog        Catalog
	cache          cache.Interface
	cacheTTL       time.Duration
	cacheOpTimeout time.Duration
	maxRecDefault  int
	maxRecLimit    int
}

type Option func(*Handler)

// WithCache enables the response cache. A nil cache leaves caching off.
func WithCache(c cache.Interface, ttl, opTimeout time.Duration) Option {
	return func(h *Handler) {
		h.cache = c
		h.cacheTTL = ttl
		h.cacheOpTimeout = opTimeout
	}
}

func WithMaxRec(def, limit int) Option {
	return func(h *Handler) {
		h.maxRecDefault = def
		h.maxRecLimit = limit
	}
}

func New(logger *slog.Logger, catalog Catalog, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:         logger,
		catalog:        catalog,
		cacheOpTimeout: 250 * time.Millisecond,
		maxRecDefault:  100,
		maxRecLimit:    10000,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Query serves the search endpoint.
func (h *Handler) Query() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		h.handleQuery(sw, r)
		observability.ObserveHTTP(r.Method, "/sia", sw.code, time.Since(start).Seconds())
	}
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values := r.URL.Query()

	params, err := sia.ParseSearchParams(values)
	if err != nil {
		h.logger.LogAttrs(ctx, slog.LevelInfo, "query rejected",
			slog.String("err", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyMaxRec(&params)

	cacheKey := h.cacheKey(values, params)
	if body, ok := h.cacheGet(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
		return
	}

	plan, err := query.Translate(params)
	if err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "query translation failed",
			slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records, err := h.catalog.Search(ctx, plan)
	if err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "catalog search failed",
			slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "query execution failed")
		return
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Row()
	}

	var buf bytes.Buffer
	if err := votable.Write(&buf, resultDescription, obscore.Columns, rows); err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "votable serialization failed",
			slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "response serialization failed")
		return
	}
	body := buf.Bytes()

	h.cacheSet(ctx, cacheKey, body, keys.Tags(params.Collection))

	h.logger.LogAttrs(ctx, slog.LevelDebug, "query served",
		slog.Int("rows", len(rows)))
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

// applyMaxRec fills in the default row cap and clamps explicit values to the
// service limit.
func (h *Handler) applyMaxRec(p *sia.SearchParams) {
	if p.MaxRec == nil {
		def := h.maxRecDefault
		p.MaxRec = &def
		return
	}
	if *p.MaxRec > h.maxRecLimit {
		capped := h.maxRecLimit
		p.MaxRec = &capped
	}
}

// cacheKey hashes the raw query plus the effective row cap, so an absent
// MAXREC and an explicit one equal to the default share an entry.
func (h *Handler) cacheKey(values url.Values, p sia.SearchParams) string {
	if h.cache == nil {
		return ""
	}
	norm := url.Values{}
	for name, vs := range values {
		norm[name] = vs
	}
	norm.Set(sia.FieldMaxRec, strconv.Itoa(*p.MaxRec))
	return keys.ResponseKey(norm)
}

func (h *Handler) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	opCtx, cancel := context.WithTimeout(ctx, h.cacheOpTimeout)
	defer cancel()
	body, ok, err := h.cache.Get(opCtx, key)
	if err != nil {
		h.logger.LogAttrs(ctx, slog.LevelWarn, "cache get failed",
			slog.String("err", err.Error()))
		return nil, false
	}
	return body, ok
}

func (h *Handler) cacheSet(ctx context.Context, key string, body []byte, tags []string) {
	if h.cache == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cacheOpTimeout)
	defer cancel()
	if err := h.cache.Set(opCtx, key, body, h.cacheTTL, tags...); err != nil {
		h.logger.LogAttrs(ctx, slog.LevelWarn, "cache set failed",
			slog.String("err", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(votable.ErrorDocument(msg))
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
