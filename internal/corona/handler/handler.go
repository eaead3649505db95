package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"catalog/internal/corona/client"
	"catalog/internal/corona/models"
	"catalog/internal/platform/observability"
	"catalog/internal/validation"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/httputil"
	"catalog/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Fetcher

// Fetcher retrieves statistics from the remote API.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]*models.Corona, error)
	FetchByName(ctx context.Context, name string) (*models.Corona, error)
}

// Handler serves country statistics fetched on demand.
type Handler struct {
	logger         *slog.Logger
	fetcher        Fetcher
	defaultCountry string
}

// New creates a new corona Handler. defaultCountry backs GET /corona/default.
func New(fetcher Fetcher, logger *slog.Logger, defaultCountry string) *Handler {
	return &Handler{
		logger:         logger,
		fetcher:        fetcher,
		defaultCountry: defaultCountry,
	}
}

// Register registers the corona routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/corona", func(r chi.Router) {
		r.Get("/", h.handleListCountries)
		r.Get("/default", h.handleDefaultCountry)
		r.Get("/{country}", h.handleGetCountry)
		r.Get("/{country}/summary", h.handleGetSummary)
	})
}

func (h *Handler) handleListCountries(w http.ResponseWriter, r *http.Request) {
	all, err := h.fetcher.FetchAll(r.Context())
	if err != nil {
		h.writeFetchError(w, r, "all", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, all)
}

func (h *Handler) handleDefaultCountry(w http.ResponseWriter, r *http.Request) {
	if h.defaultCountry == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no default country configured"))
		return
	}
	h.writeCountry(w, r, h.defaultCountry)
}

func (h *Handler) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	name, ok := h.countryParam(w, r)
	if !ok {
		return
	}
	h.writeCountry(w, r, name)
}

func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	name, ok := h.countryParam(w, r)
	if !ok {
		return
	}
	c, err := h.fetcher.FetchByName(r.Context(), name)
	if err != nil {
		h.writeFetchError(w, r, name, err)
		return
	}
	httputil.WriteText(w, http.StatusOK, c.Describe())
}

func (h *Handler) writeCountry(w http.ResponseWriter, r *http.Request, name string) {
	c, err := h.fetcher.FetchByName(r.Context(), name)
	if err != nil {
		h.writeFetchError(w, r, name, err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, c)
}

func (h *Handler) countryParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(chi.URLParam(r, "country"))
	if name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "country is required"))
		return "", false
	}
	return name, true
}

// writeFetchError maps client failures onto gateway errors. Everything that
// went wrong here went wrong upstream, so it is logged at warn.
func (h *Handler) writeFetchError(w http.ResponseWriter, r *http.Request, country string, err error) {
	ctx := r.Context()
	observability.LoggerWithTrace(ctx, h.logger).WarnContext(ctx, "failed to fetch statistics",
		"request_id", requestcontext.RequestID(ctx),
		"country", country,
		"error", err.Error(),
	)
	httputil.WriteError(w, toDomainError(err))
}

func toDomainError(err error) error {
	var verr *validation.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "statistics service timed out")
	case client.IsDecodeError(err):
		return dErrors.Wrap(err, dErrors.CodeUpstream, "statistics service returned an unreadable response")
	case client.IsTransportError(err):
		return dErrors.Wrap(err, dErrors.CodeUpstream, "statistics service is unavailable")
	case errors.As(err, &verr):
		return dErrors.Wrap(err, dErrors.CodeBadUpstream, verr.Error())
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch statistics")
	}
}
