// Package handler is the thin HTTP layer over the chassis factory. It
// parses requests, delegates, and maps domain errors onto statuses;
// business rules stay in the domain packages.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chassisd/internal/chassis/factory"
	"chassisd/internal/chassis/models"
	dErrors "chassisd/pkg/domain-errors"
	"chassisd/pkg/platform/httputil"
	adminmw "chassisd/pkg/platform/middleware/admin"
)

// Handler wires chassis endpoints to the factory.
type Handler struct {
	factory *factory.Factory
	logger  *slog.Logger
}

// New constructs a handler with its dependencies.
func New(f *factory.Factory, logger *slog.Logger) *Handler {
	return &Handler{factory: f, logger: logger}
}

// Register mounts the public endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/vins", h.handleCreateVIN)
		r.Post("/vins/batch", h.handleCreateVINBatch)
		r.Post("/vins/from-prefix", h.handleCreateVINFromPrefix)
		r.Post("/chassis", h.handleCreateChassis)
		r.Post("/chassis/batch", h.handleCreateChassisBatch)
		r.Post("/identifiers/random", h.handleCreateRandom)
		r.Post("/sequences/continue", h.handleContinueSequence)
		r.Post("/validations", h.handleValidate)
		r.Get("/prefixes/stats", h.handlePrefixStats)
		r.Get("/prefixes/{code}", h.handleLookupPrefix)
		r.Get("/prefixes", h.handleSearchPrefixes)
	})
}

// RegisterAdmin mounts administrative endpoints behind the admin token.
func (h *Handler) RegisterAdmin(r chi.Router, adminToken string) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(adminToken, h.logger))
		r.Post("/sequences/reset", h.handleResetSequence)
	})
}

func (h *Handler) handleCreateVIN(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CreateVINRequest](w, r)
	if !ok {
		return
	}
	id, err := h.factory.CreateVIN(r.Context(), vinParams(req))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IdentifiersResponse{Identifiers: []models.Identifier{id}})
}

func (h *Handler) handleCreateVINBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CreateVINRequest](w, r)
	if !ok {
		return
	}
	ids, err := h.factory.CreateVINBatch(r.Context(), vinParams(req), quantityOr(req.Quantity, 1))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IdentifiersResponse{Identifiers: ids})
}

func (h *Handler) handleCreateVINFromPrefix(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CreateVINFromPrefixRequest](w, r)
	if !ok {
		return
	}
	p := factory.VINParams{
		VDS:   descriptorOr(req.Descriptor),
		Year:  req.Year,
		Plant: plantByte(req.PlantCode),
	}
	ids, err := h.factory.CreateVINFromPrefix(r.Context(), req.Query, p, quantityOr(req.Quantity, 1))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IdentifiersResponse{Identifiers: ids})
}

func (h *Handler) handleCreateChassis(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CreateChassisRequest](w, r)
	if !ok {
		return
	}
	id, err := h.factory.CreateChassis(r.Context(), chassisParams(req))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IdentifiersResponse{Identifiers: []models.Identifier{id}})
}

func (h *Handler) handleCreateChassisBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CreateChassisRequest](w, r)
	if !ok {
		return
	}
	ids, err := h.factory.CreateChassisBatch(r.Context(), chassisParams(req), quantityOr(req.Quantity, 1))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IdentifiersResponse{Identifiers: ids})
}

func (h *Handler) handleCreateRandom(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CreateRandomRequest](w, r)
	if !ok {
		return
	}
	kind := models.Kind(req.Kind)
	if kind == "" {
		kind = models.KindVIN
	}
	ids, err := h.factory.CreateRandom(quantityOr(req.Quantity, 1), kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IdentifiersResponse{Identifiers: ids})
}

func (h *Handler) handleContinueSequence(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[ContinueSequenceRequest](w, r)
	if !ok {
		return
	}
	values, pattern, err := h.factory.ContinueSequence(req.Existing, req.Quantity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ContinuationResponse{Values: values, Pattern: pattern})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[ValidateRequest](w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.factory.Validate(req.Identifier))
}

func (h *Handler) handleLookupPrefix(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rec, ok := h.factory.PrefixDatabase().LookupCode(code)
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeUnknownManufacturer, "no prefix record for code %q", code))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleSearchPrefixes(w http.ResponseWriter, r *http.Request) {
	db := h.factory.PrefixDatabase()
	if q := r.URL.Query().Get("manufacturer"); q != "" {
		httputil.WriteJSON(w, http.StatusOK, PrefixesResponse{Records: db.SearchManufacturer(q)})
		return
	}
	if q := r.URL.Query().Get("country"); q != "" {
		httputil.WriteJSON(w, http.StatusOK, PrefixesResponse{Records: db.SearchCountry(q)})
		return
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidParameter, "provide a manufacturer or country query parameter"))
}

func (h *Handler) handlePrefixStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.factory.PrefixDatabase().Stats())
}

func (h *Handler) handleResetSequence(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[ResetSequenceRequest](w, r)
	if !ok {
		return
	}
	if req.Key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidParameter, "key is required"))
		return
	}
	if err := h.factory.ResetSequence(r.Context(), req.Key); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func vinParams(req CreateVINRequest) factory.VINParams {
	return factory.VINParams{
		WMI:      req.ManufacturerCode,
		VDS:      descriptorOr(req.Descriptor),
		Year:     req.Year,
		Plant:    plantByte(req.PlantCode),
		Sequence: req.Sequence,
	}
}

func descriptorOr(s string) string {
	if s == "" {
		return models.DefaultVDS
	}
	return s
}

func chassisParams(req CreateChassisRequest) factory.ChassisParams {
	return factory.ChassisParams{
		Template: req.Template,
		Fields:   req.Fields,
		Serial:   req.Serial,
	}
}

func plantByte(s string) byte {
	if s == "" {
		return models.DefaultPlantCode
	}
	return s[0]
}

func quantityOr(q, fallback int) int {
	if q == 0 {
		return fallback
	}
	return q
}
