package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"strconv"
	"strings"
)

// WriteJSONError sends {"error": message} with the given status code
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON sends payload with the given status code.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// writeUseCaseError maps domain errors to HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrPropertyNotFound):
		WriteJSONError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, domain.ErrInvalidFilter):
		logger.Warn("Rejected request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDataSourceUnavailable):
		logger.Error("Data source unavailable", err, nil)
		WriteJSONError(w, http.StatusServiceUnavailable, "data source unavailable")
	default:
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseString(query url.Values, key string) string {
	return strings.TrimSpace(query.Get(key))
}

// parseOptionalFloat returns nil for an absent parameter and an error for a malformed one.
func parseOptionalFloat(query url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' value: %q", key, raw)
	}
	return &value, nil
}

func parseOptionalInt(query url.Values, key string) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s' value: %q", key, raw)
	}
	return value, nil
}

// parseCountries accepts both ?country=TR&country=CY and ?country=TR,CY.
func parseCountries(query url.Values) []string {
	var countries []string
	for _, value := range query["country"] {
		for _, code := range strings.Split(value, ",") {
			if code = strings.TrimSpace(code); code != "" {
				countries = append(countries, code)
			}
		}
	}
	return countries
}
