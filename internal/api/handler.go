package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/pixels-conf/internal/metrics"
	"github.com/eugenenazirov/pixels-conf/internal/settings"
	"github.com/eugenenazirov/pixels-conf/internal/storage"
	"github.com/eugenenazirov/pixels-conf/internal/writer"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the global store and base table properties into HTTP handlers.
type Handler struct {
	store settings.Store
	props settings.Properties

	clock func() time.Time

	mu        sync.RWMutex
	updatedAt map[string]time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithProperties sets the scoped properties applied to every request before
// request-level overrides.
func WithProperties(props settings.Properties) HandlerOption {
	return func(h *Handler) {
		h.props = props
	}
}

// NewHandler constructs a Handler around store.
func NewHandler(store settings.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		store: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		updatedAt: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListSettings(w http.ResponseWriter, r *http.Request) {
	props := storage.MergeProperties(h.props, queryProperties(r))

	all := settings.All()
	resp := settingsResponse{Settings: make([]settingResponse, 0, len(all))}
	for _, s := range all {
		item, _ := h.describe(s, props)
		resp.Settings = append(resp.Settings, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	props := storage.MergeProperties(h.props, queryProperties(r))
	item, err := h.describe(s, props)
	if errors.Is(err, settings.ErrParse) || errors.Is(err, settings.ErrTypeMismatch) {
		writeError(w, http.StatusUnprocessableEntity, "Malformed setting value", err.Error(),
			fmt.Sprintf("Fix the value stored under %s", item.ResolvedFrom))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "value is required")
		return
	}

	if err := s.Set(h.store, *req.Value); err != nil {
		if errors.Is(err, settings.ErrParse) {
			writeError(w, http.StatusBadRequest, "Invalid value", err.Error(),
				fmt.Sprintf("%s expects a %s", s.Key(), s.Kind()))
			return
		}
		writeInternalError(w, err)
		return
	}

	metrics.StoreWrites.WithLabelValues(s.Key()).Inc()
	h.markUpdated(s.Key())

	item, _ := h.describe(s, h.props)
	item.Message = "Setting updated successfully"
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleWriterOptions(w http.ResponseWriter, r *http.Request) {
	var req writerOptionsRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
			return
		}
	}

	props := storage.MergeProperties(h.props, req.Properties)
	opts, err := writer.Resolve(props, h.store)
	if err != nil {
		if errors.Is(err, settings.ErrParse) {
			writeError(w, http.StatusUnprocessableEntity, "Malformed setting value", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	if err := opts.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid writer options", err.Error(),
			"Ensure pixels.stripe.size does not exceed pixels.block.size")
		return
	}

	writeJSON(w, http.StatusOK, writerOptionsResponse{
		Options:            opts,
		ShuffleKeySchema:   optional(opts.ShuffleKeySchema, opts.HasShuffleKeySchema),
		ShuffleValueSchema: optional(opts.ShuffleValueSchema, opts.HasShuffleValueSchema),
		OutputSchema:       optional(opts.OutputSchema, opts.HasOutputSchema),
	})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (settings.Setting, bool) {
	key := r.PathValue("key")
	s, err := settings.Lookup(key)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown setting", err.Error(),
			"GET /api/settings lists every known key")
		return settings.Setting{}, false
	}
	return s, true
}

// describe resolves s and records the outcome in metrics. The returned error
// is also reported in the response body.
func (h *Handler) describe(s settings.Setting, props settings.Properties) (settingResponse, error) {
	res := s.Resolve(props, h.store)
	item := settingResponse{
		Key:          s.Key(),
		LegacyKey:    s.LegacyKey(),
		Kind:         s.Kind().String(),
		Description:  s.Description(),
		Source:       res.Source.String(),
		ResolvedFrom: res.Key,
		UpdatedAt:    h.updated(s.Key()),
	}
	if def, ok := s.Default(); ok {
		formatted := settings.Format(def)
		item.Default = &formatted
	}

	metrics.Resolutions.WithLabelValues(s.Key(), item.Source).Inc()

	value, err := s.Value(props, h.store)
	switch {
	case err == nil:
		item.Value = value
	case errors.Is(err, settings.ErrMissingDefault):
		// absent is a legitimate outcome for settings without a default
	default:
		metrics.ResolutionErrors.WithLabelValues(s.Key()).Inc()
		item.Error = err.Error()
		return item, err
	}
	return item, nil
}

func (h *Handler) updated(key string) *time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ts, ok := h.updatedAt[key]
	if !ok {
		return nil
	}
	return &ts
}

func (h *Handler) markUpdated(key string) {
	h.mu.Lock()
	h.updatedAt[key] = h.clock()
	h.mu.Unlock()
}

// queryProperties turns query parameters into scoped overrides. Only the
// first value of a repeated parameter is used.
func queryProperties(r *http.Request) map[string]string {
	q := r.URL.Query()
	if len(q) == 0 {
		return nil
	}
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type setSettingRequest struct {
	Value *string `json:"value"`
}

type writerOptionsRequest struct {
	Properties map[string]string `json:"properties"`
}

type settingResponse struct {
	Key          string     `json:"key"`
	LegacyKey    string     `json:"legacyKey,omitempty"`
	Kind         string     `json:"kind"`
	Default      *string    `json:"default,omitempty"`
	Description  string     `json:"description"`
	Value        any        `json:"value,omitempty"`
	Source       string     `json:"source"`
	ResolvedFrom string     `json:"resolvedFrom,omitempty"`
	Error        string     `json:"error,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	Message      string     `json:"message,omitempty"`
}

type settingsResponse struct {
	Settings []settingResponse `json:"settings"`
}

type writerOptionsResponse struct {
	writer.Options
	ShuffleKeySchema   *string `json:"shuffleKeySchema"`
	ShuffleValueSchema *string `json:"shuffleValueSchema"`
	OutputSchema       *string `json:"outputSchema"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
