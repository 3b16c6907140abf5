// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the chain parameters from the genesis file.
type Genesis struct {
	Date           time.Time `json:"date"`
	Name           string    `json:"name"`            // A human readable name for this chain.
	ExpectedSpan   uint64    `json:"expected_span"`   // Expected seconds between the chain's first and last block, used for retargeting.
	StartingTarget string    `json:"starting_target"` // Compact bits target the chain starts with.
	TransPerBlock  uint16    `json:"trans_per_block"` // The maximum number of transactions that can be in a block.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load() (Genesis, error) {
	path := "zblock/genesis.json"
	return LoadFromFile(path)
}

// LoadFromFile consumes the genesis file at the specified path.
func LoadFromFile(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
