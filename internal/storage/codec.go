package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/models"
)

// EncodeBioConfig renders a pinned bio clock for a nullable JSON column. Legacy
// records without a pinned config are stored as NULL.
func EncodeBioConfig(cfg *models.BioClockConfig) (sql.NullString, error) {
	if cfg == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode bio config: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// DecodeBioConfig is the inverse of EncodeBioConfig.
func DecodeBioConfig(col sql.NullString) (*models.BioClockConfig, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var cfg models.BioClockConfig
	if err := json.Unmarshal([]byte(col.String), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode bio config: %w", err)
	}
	return &cfg, nil
}

// EncodeTags renders check tags as a JSON array; nil becomes "[]".
func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

// DecodeTags is the inverse of EncodeTags. An empty column decodes to no tags.
func DecodeTags(col string) ([]string, error) {
	tags := []string{}
	if col == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(col), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}
