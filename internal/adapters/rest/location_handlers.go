package rest

import (
	"net/http"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"
)

type LocationHandler struct {
	getLocationFacetsUC usecases_port.GetLocationFacetsUseCase
}

func NewLocationHandler(getLocationFacetsUC usecases_port.GetLocationFacetsUseCase) *LocationHandler {
	return &LocationHandler{getLocationFacetsUC: getLocationFacetsUC}
}

// GetLocations handles GET /api/v1/locations
func (h *LocationHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	propertyType := parseString(r.URL.Query(), "type")

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetLocations",
		"type":    propertyType,
	})
	handlerLogger.Info("Processing request", nil)

	facets, err := h.getLocationFacetsUC.Execute(r.Context(), propertyType)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toLocationsResponse(facets))
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
