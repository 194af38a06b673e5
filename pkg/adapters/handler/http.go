package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// Version is reported by /healthz. Overridden at build time with -ldflags.
var Version = "1.0"

const (
	maxBodyBytes = 1 << 20
	qrSize       = 256
)

type HTTPHandler struct {
	links     ports.LinkService
	redirects ports.RedirectService
	baseURL   string
	logger    *slog.Logger
}

func NewHTTPHandler(links ports.LinkService, redirects ports.RedirectService, baseURL string, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{
		links:     links,
		redirects: redirects,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// CreateLinkRequest payload. Any other field is rejected.
type CreateLinkRequest struct {
	TargetURL string `json:"targetUrl"`
	Code      string `json:"code,omitempty"`
}

// Create Link
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := decodeJSON(w, r, &req, "targetUrl", "code"); err != nil {
		h.writeError(w, r, err)
		return
	}

	link, err := h.links.Create(r.Context(), req.TargetURL, req.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

// List Links, newest first
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// Get a single link record
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete Link. Unknown codes also answer 204.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.links.Delete(r.Context(), r.PathValue("code")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Redirect to target URL
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	target, err := h.redirects.Resolve(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// 302 so browsers do not cache the mapping.
	http.Redirect(w, r, target, http.StatusFound)
}

// QRCode renders a PNG QR code for the short URL of a link
func (h *HTTPHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/"+link.Code, qrcode.Medium, qrSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Health reports liveness
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": Version,
	})
}

// decodeJSON reads a single JSON object into dst. Keys must match fields exactly;
// encoding/json alone would accept any casing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, fields ...string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return &requestError{msg: "invalid request body", err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &requestError{msg: "request body must contain a single JSON object"}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return &requestError{msg: "invalid request body", err: err}
	}
	for key := range keys {
		if !slices.Contains(fields, key) {
			return &requestError{msg: fmt.Sprintf("unknown field %q", key)}
		}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &requestError{msg: "invalid request body", err: err}
	}
	return nil
}

// requestError is an unparseable body. It counts as invalid input.
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *requestError) Is(target error) bool { return target == domain.ErrInvalidInput }

func (e *requestError) Unwrap() error { return e.err }

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		if !errors.Is(err, domain.ErrGenerationExhausted) {
			msg = "internal server error"
		}
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
