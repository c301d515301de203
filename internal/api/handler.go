package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/domain"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/spatial"
)

const contentTypeMsgpack = "application/msgpack"

// DensityService is the domain behaviour the handlers depend on.
type DensityService interface {
	Density(ctx context.Context, req domain.DensityRequest) (*domain.DensityResult, error)
	Years(ctx context.Context) ([]int, error)
	Summary(ctx context.Context, year int) ([]dataset.AlcaldiaTotal, error)
	Boundaries(ctx context.Context) ([]string, error)
}

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	service  DensityService
	validate *validator.Validate
}

// NewHandler creates a new Handler.
func NewHandler(service DensityService) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes attaches all routes to the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /api/v1/years", h.handleYears)
	mux.HandleFunc("GET /api/v1/density", h.handleDensity)
	mux.HandleFunc("GET /api/v1/summary", h.handleSummary)
	mux.HandleFunc("GET /api/v1/boundaries", h.handleBoundaries)
}

// handleHealth returns 204 No Content for liveness checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type yearsResponse struct {
	Years []int `json:"years" msgpack:"years"`
}

func (h *Handler) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeResponse(w, r, http.StatusOK, yearsResponse{Years: years})
}

type boundariesResponse struct {
	Boundaries []string `json:"boundaries" msgpack:"boundaries"`
}

func (h *Handler) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Boundaries(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeResponse(w, r, http.StatusOK, boundariesResponse{Boundaries: names})
}

type densityQuery struct {
	Year  int     `validate:"required,gte=1900,lte=2100"`
	NX    int     `validate:"omitempty,min=1,max=2000"`
	NY    int     `validate:"omitempty,min=1,max=2000"`
	Power float64 `validate:"omitempty,gt=0,lte=10"`
	K     int     `validate:"omitempty,min=1"`
}

type densityResponse struct {
	Year     int                         `json:"year" msgpack:"year"`
	Known    int                         `json:"known" msgpack:"known"`
	NX       int                         `json:"nx" msgpack:"nx"`
	NY       int                         `json:"ny" msgpack:"ny"`
	ColorMin float64                     `json:"color_min" msgpack:"color_min"`
	ColorMax float64                     `json:"color_max" msgpack:"color_max"`
	Points   []spatial.InterpolatedPoint `json:"points" msgpack:"points"`
}

func (h *Handler) handleDensity(w http.ResponseWriter, r *http.Request) {
	var q densityQuery
	values := r.URL.Query()
	err := errors.Join(
		parseInt(values.Get("year"), "year", &q.Year),
		parseInt(values.Get("nx"), "nx", &q.NX),
		parseInt(values.Get("ny"), "ny", &q.NY),
		parseFloat(values.Get("power"), "power", &q.Power),
		parseInt(values.Get("k"), "k", &q.K),
	)
	if err == nil {
		err = h.validate.Struct(q)
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Density(r.Context(), domain.DensityRequest{
		Year:  q.Year,
		NX:    q.NX,
		NY:    q.NY,
		Power: q.Power,
		K:     q.K,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	points := result.Points
	if points == nil {
		points = []spatial.InterpolatedPoint{}
	}
	writeResponse(w, r, http.StatusOK, densityResponse{
		Year:     result.Year,
		Known:    result.Known,
		NX:       result.NX,
		NY:       result.NY,
		ColorMin: result.ColorMin,
		ColorMax: result.ColorMax,
		Points:   points,
	})
}

type summaryQuery struct {
	Year int `validate:"required,gte=1900,lte=2100"`
}

type summaryResponse struct {
	Year      int                     `json:"year" msgpack:"year"`
	Alcaldias []dataset.AlcaldiaTotal `json:"alcaldias" msgpack:"alcaldias"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	var q summaryQuery
	err := parseInt(r.URL.Query().Get("year"), "year", &q.Year)
	if err == nil {
		err = h.validate.Struct(q)
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.service.Summary(r.Context(), q.Year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResponse(w, r, http.StatusOK, summaryResponse{Year: q.Year, Alcaldias: summary})
}

func parseInt(s, name string, dst *int) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", name, s)
	}
	*dst = n
	return nil
}

func parseFloat(s, name string, dst *float64) error {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid number %q", name, s)
	}
	*dst = f
	return nil
}

// writeError maps domain and pipeline errors to HTTP status codes. Anything
// unrecognised is logged and reported as 500 without details.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var yearNotFound *domain.ErrYearNotFound
	switch {
	case errors.As(err, &yearNotFound), errors.Is(err, domain.ErrBoundaryNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrGridTooLarge):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case spatial.IsInputError(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// writeResponse encodes v as msgpack when the client asks for it, JSON
// otherwise.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		body, err := msgpack.Marshal(v)
		if err != nil {
			slog.ErrorContext(r.Context(), "encode msgpack response", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", contentTypeMsgpack)
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode json response", "error", err)
	}
}
