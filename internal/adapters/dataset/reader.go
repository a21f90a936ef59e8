package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"property-service/internal/contextkeys"
	"property-service/internal/contracts"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"regexp"
	"strings"
)

var countryCodePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

// CountryReader reads <dir>/<CODE>.json on every call.
type CountryReader struct {
	dir string
}

func NewCountryReader(dir string) *CountryReader {
	return &CountryReader{dir: dir}
}

// LoadShard returns an empty list for a missing shard or a code that is not two letters.
func (r *CountryReader) LoadShard(ctx context.Context, countryCode string) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "CountryReader",
		"country_code": countryCode,
	})

	if !countryCodePattern.MatchString(countryCode) {
		logger.Debug("Country code is not a two-letter code, treating shard as missing", nil)
		return []domain.Property{}, nil
	}

	path := filepath.Join(r.dir, strings.ToUpper(countryCode)+".json")
	return readDataset(ctx, path, domain.SourceCountryShard, logger)
}

// LegacyReader reads the single archive file on every call.
type LegacyReader struct {
	path string
}

func NewLegacyReader(path string) *LegacyReader {
	return &LegacyReader{path: path}
}

func (r *LegacyReader) LoadLegacy(ctx context.Context) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LegacyReader",
	})

	if r.path == "" {
		return []domain.Property{}, nil
	}
	return readDataset(ctx, r.path, domain.SourceLegacy, logger)
}

func readDataset(ctx context.Context, path string, source domain.Source, logger port.LoggerPort) ([]domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger = logger.WithFields(port.Fields{"path": path})

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Dataset file not found, treating as empty", nil)
			return []domain.Property{}, nil
		}
		return nil, fmt.Errorf("failed to read dataset %s: %w: %w", path, domain.ErrDataSourceUnavailable, err)
	}

	records, err := splitRecords(data)
	if err != nil {
		return nil, fmt.Errorf("malformed dataset %s: %w: %w", path, domain.ErrDataSourceUnavailable, err)
	}

	properties := make([]domain.Property, 0, len(records))
	for i, raw := range records {
		if err := contracts.ValidateFixture(raw); err != nil {
			logger.Warn("Skipping dataset record that does not match the fixture schema", port.Fields{
				"index": i,
				"error": err.Error(),
			})
			continue
		}

		var record fixtureRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			logger.Warn("Skipping dataset record that could not be decoded", port.Fields{
				"index": i,
				"error": err.Error(),
			})
			continue
		}

		properties = append(properties, record.toDomain(source, logger))
	}

	logger.Debug("Dataset loaded", port.Fields{"records": len(records), "properties": len(properties)})
	return properties, nil
}

// splitRecords accepts a bare array or an object wrapping it under "properties".
func splitRecords(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '{' {
		var wrapper struct {
			Properties []json.RawMessage `json:"properties"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		return wrapper.Properties, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
