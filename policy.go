package compounddoc

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TypePolicy holds per-resource-type validation policy.
type TypePolicy struct {
	// ClientIDs accepts client-generated ids on create for this type.
	ClientIDs bool `yaml:"client_ids"`
}

// Policy configures client-id acceptance per resource type, with a default
// for types not listed.
//
//	default_client_ids: false
//	types:
//	  articles:
//	    client_ids: true
type Policy struct {
	DefaultClientIDs bool                  `yaml:"default_client_ids"`
	Types            map[string]TypePolicy `yaml:"types"`
}

// ClientIDsSupported reports whether resourceType accepts client-generated
// ids.
func (p *Policy) ClientIDsSupported(resourceType string) bool {
	if tp, ok := p.Types[resourceType]; ok {
		return tp.ClientIDs
	}
	return p.DefaultClientIDs
}

// LoadPolicy reads a YAML policy from r.
func LoadPolicy(r io.Reader) (*Policy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("policy: read: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("policy: parse: %w", err)
	}
	return &p, nil
}

// LoadPolicyFile reads a YAML policy from path.
func LoadPolicyFile(path string) (*Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("policy: open: %w", err)
	}
	defer f.Close()
	return LoadPolicy(f)
}
