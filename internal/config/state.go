package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/enhance/internal/errors"
)

// LoadState reads the initial store from a YAML or JSON file. The top level
// must be a mapping. An empty path yields an empty store.
func LoadState(path string) (map[string]any, error) {
	state := make(map[string]any)
	if path == "" {
		return state, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E023").WithDetailf("reading %s", path).Wrap(err)
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, errors.New("E023").
			WithDetailf("parsing %s", path).
			WithSuggestion("The state file must hold a YAML or JSON mapping").
			Wrap(err)
	}
	if state == nil {
		state = make(map[string]any)
	}
	return state, nil
}
