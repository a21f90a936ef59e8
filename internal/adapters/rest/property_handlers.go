package rest

import (
	"net/http"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	findPropertiesUC  usecases_port.FindPropertiesUseCase
	resolvePropertyUC usecases_port.ResolvePropertyUseCase
}

func NewPropertyHandler(findPropertiesUC usecases_port.FindPropertiesUseCase,
	resolvePropertyUC usecases_port.ResolvePropertyUseCase) *PropertyHandler {
	return &PropertyHandler{
		findPropertiesUC:  findPropertiesUC,
		resolvePropertyUC: resolvePropertyUC,
	}
}

// FindProperties handles GET /api/v1/properties
func (h *PropertyHandler) FindProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	query := r.URL.Query()

	page, err := parseOptionalInt(query, "page")
	if err != nil {
		logger.Warn("Invalid 'page' parameter", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageSize, err := parseOptionalInt(query, "pageSize")
	if err != nil {
		logger.Warn("Invalid 'pageSize' parameter", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	minPrice, err := parseOptionalFloat(query, "minPrice")
	if err != nil {
		logger.Warn("Invalid 'minPrice' parameter", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPrice, err := parseOptionalFloat(query, "maxPrice")
	if err != nil {
		logger.Warn("Invalid 'maxPrice' parameter", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := domain.SearchFilters{
		Type:     parseString(query, "type"),
		Country:  parseString(query, "country"),
		City:     parseString(query, "city"),
		District: parseString(query, "district"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Search:   parseString(query, "search"),
	}
	pageRequest := domain.PageRequest{Page: page, PageSize: pageSize}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "FindProperties",
	})
	handlerLogger.Info("Processing request", nil)

	result, err := h.findPropertiesUC.Execute(r.Context(), filters, pageRequest)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSearchResponse(result))
}

// GetProperty handles GET /api/v1/properties/{slug}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	// raw path segment, decoding is the resolver's job
	slugParam := chi.URLParam(r, "slug")
	if slugParam == "" {
		WriteJSONError(w, http.StatusBadRequest, "slug is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetProperty",
		"slug":    slugParam,
	})
	handlerLogger.Info("Processing request", nil)

	hint := domain.ResolveHint{Countries: parseCountries(r.URL.Query())}

	property, err := h.resolvePropertyUC.Execute(r.Context(), slugParam, hint)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toPropertyResponse(*property))
}
