package search

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadParams reads a Params block from a TOML file, starting from
// DefaultParams so an omitted section keeps its reference tuning.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Params{}, fmt.Errorf("search: loading params from %s: %w", path, err)
	}
	return p, nil
}
