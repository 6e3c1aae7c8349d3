// Package intents reads the trade intent table from a YAML file.
package intents

import (
	"fmt"
	"os"

	"kitecover/internal/domain"
	"kitecover/internal/ports"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of an intent table.
//
//	intents:
//	  - symbol: TCS
//	    price: 100
//	    quantity: 10
//	    side: BUY
//	    stop_loss: 95
type File struct {
	Intents []domain.TradeIntent `yaml:"intents"`
}

// Load reads and validates a trade intent table. A malformed row rejects the
// whole file; the synthesizer never sees a partially valid batch.
func Load(path string) ([]domain.TradeIntent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intents file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing intents file %s: %w: %w", path, ports.ErrInvalidIntent, err)
	}
	if len(f.Intents) == 0 {
		return nil, fmt.Errorf("intents file %s: %w: no intents defined", path, ports.ErrInvalidIntent)
	}

	for i, intent := range f.Intents {
		if err := intent.Validate(); err != nil {
			return nil, fmt.Errorf("intents file %s, row %d: %w: %w", path, i, ports.ErrInvalidIntent, err)
		}
	}
	return f.Intents, nil
}
