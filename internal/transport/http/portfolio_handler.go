package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pfbeta/internal/errors"
	"pfbeta/internal/ingest"
	"pfbeta/internal/normalize"
	"pfbeta/internal/portfolio"
)

// valuationDateLayout is the wire format of the valuation_date query
// parameter.
const valuationDateLayout = "2006-01-02"

// Normalizer turns one uploaded table into canonical rows.
type Normalizer interface {
	Normalize(ctx context.Context, raw normalize.RawTable) (normalize.CanonicalTable, error)
}

// Reconciler resolves canonical rows into a portfolio result.
type Reconciler interface {
	Reconcile(ctx context.Context, rows normalize.CanonicalTable, asOf *time.Time) portfolio.Result
}

// PortfolioHandler handles portfolio beta calculation requests.
type PortfolioHandler struct {
	pipeline       Normalizer
	engine         Reconciler
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewPortfolioHandler creates a portfolio handler.
func NewPortfolioHandler(pipeline Normalizer, engine Reconciler, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PortfolioHandler {
	return &PortfolioHandler{
		pipeline:       pipeline,
		engine:         engine,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("handler", "portfolio")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the portfolio routes.
func (h *PortfolioHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/beta", h.CalculateBeta)
	return r
}

// CalculateBeta handles POST /api/portfolio/beta. It accepts one or
// more spreadsheet uploads under the "files" field plus an optional
// valuation_date query parameter, normalizes every file, and returns
// the reconciled portfolio result. One file failing normalization
// fails the whole request with a per-file problem response.
func (h *PortfolioHandler) CalculateBeta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	asOf, err := parseValuationDate(r.URL.Query().Get("valuation_date"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidDate)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFiles)
		return
	}

	var rows normalize.CanonicalTable
	for _, upload := range uploads {
		table, err := h.normalizeUpload(ctx, upload)
		if err != nil {
			h.logger.WarnContext(ctx, "upload rejected",
				slog.String("file", upload.Filename),
				slog.String("error", err.Error()))
			h.errorHandler.HandleError(w, r, apierrors.FileError(upload.Filename, err))
			return
		}
		rows = append(rows, table...)
	}

	h.logger.InfoContext(ctx, "portfolio upload normalized",
		slog.Int("files", len(uploads)),
		slog.Int("rows", len(rows)))

	result := h.engine.Reconcile(ctx, rows, asOf)
	if result.PortfolioBeta == nil && result.Error != "" {
		// The full detail list ships with the failure so callers can
		// see every per-ISIN outcome.
		render.Status(r, http.StatusUnprocessableEntity)
	}
	render.JSON(w, r, result)
}

func (h *PortfolioHandler) normalizeUpload(ctx context.Context, upload *multipart.FileHeader) (normalize.CanonicalTable, error) {
	f, err := upload.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := ingest.ReadUpload(upload.Filename, f)
	if err != nil {
		return nil, err
	}
	return h.pipeline.Normalize(ctx, raw)
}

func parseValuationDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(valuationDateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
