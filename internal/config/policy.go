package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PolicyFile is the on-disk form of per-boundary rollback overrides:
//
//	boundaries:
//	  order.place:
//	    rollback_for: [not_enough_money]
type PolicyFile struct {
	Boundaries map[string]BoundaryPolicy `yaml:"boundaries"`
}

type BoundaryPolicy struct {
	RollbackFor []string `yaml:"rollback_for"`
}

// LoadPolicies reads path. An empty path yields no overrides.
func LoadPolicies(path string) (map[string][]string, error) {
	if path == "" {
		return map[string][]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicies(data)
}

func ParsePolicies(data []byte) (map[string][]string, error) {
	var pf PolicyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	out := make(map[string][]string, len(pf.Boundaries))
	for name, bp := range pf.Boundaries {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("parse policy file: empty boundary name")
		}
		var codes []string
		for _, c := range bp.RollbackFor {
			if c = strings.TrimSpace(c); c != "" {
				codes = append(codes, c)
			}
		}
		out[name] = codes
	}
	return out, nil
}
