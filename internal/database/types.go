package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// GroupOutcome lists the images of one group the oracle chose or passed over.
type GroupOutcome struct {
	Name      string   `json:"name"`
	Chosen    []string `json:"chosen"`
	NotChosen []string `json:"not_chosen"`
}

// ComparisonResult is the cached outcome of one group-pair comparison.
type ComparisonResult struct {
	Key       string       `json:"key"`
	Group1    GroupOutcome `json:"group1"`
	Group2    GroupOutcome `json:"group2"`
	Samples   int          `json:"samples"`
	Discarded int          `json:"discarded"`
	Oracle    string       `json:"oracle,omitempty"`
	RunID     string       `json:"run_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ResultKey builds the cache key {group1}_{group2}_{nSamples}.
func ResultKey(group1, group2 string, nSamples int) string {
	return group1 + "_" + group2 + "_" + strconv.Itoa(nSamples)
}

// EncodeResult serializes a result for the byte-oriented stores.
func EncodeResult(r *ComparisonResult) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

// DecodeResult parses a stored result. Entries are returned as stored, with no
// schema migration.
func DecodeResult(data []byte) (*ComparisonResult, error) {
	var r ComparisonResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &r, nil
}
