package handler

import (
	"chassisd/internal/chassis/models"
	"chassisd/internal/chassis/prefixdb"
)

// IdentifiersResponse returns issued identifiers.
type IdentifiersResponse struct {
	Identifiers []models.Identifier `json:"identifiers"`
}

// ContinuationResponse returns an extended sequence and the inferred
// pattern.
type ContinuationResponse struct {
	Values  []string                  `json:"values"`
	Pattern models.PatternDescription `json:"pattern"`
}

// PrefixesResponse returns matching prefix records.
type PrefixesResponse struct {
	Records []prefixdb.Record `json:"records"`
}
