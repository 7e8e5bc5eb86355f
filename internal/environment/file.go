package environment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of an environments file:
//
//	environments:
//	  default:
//	    service: https://{env}-services.example.test
//	  sandbox:
//	    legacy: https://legacy.sandbox.example.test
//
// Entries under "default" apply to every env; env-specific entries win.
type File struct {
	Environments map[string]map[Kind]string `yaml:"environments"`
}

// LoadTemplates reads path and returns the templates that apply to env.
func LoadTemplates(path, env string) (map[Kind]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read environments file: %w", err)
	}
	return ParseTemplates(data, env)
}

// ParseTemplates is LoadTemplates over raw YAML.
func ParseTemplates(data []byte, env string) (map[Kind]string, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse environments file: %w", err)
	}

	out := make(map[Kind]string)
	for k, v := range f.Environments["default"] {
		out[k] = v
	}
	for k, v := range f.Environments[env] {
		out[k] = v
	}
	for k := range out {
		if !knownKind(k) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
		}
	}
	return out, nil
}

func knownKind(k Kind) bool {
	_, ok := defaultTemplates[k]
	return ok
}
