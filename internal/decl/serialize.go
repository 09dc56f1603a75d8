package decl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal serializes a library with full fidelity: every declaration
// field, flag, use-set and size metric survives a round-trip through
// Unmarshal.
func Marshal(lib *Library) ([]byte, error) {
	data, err := yaml.Marshal(lib)
	if err != nil {
		return nil, fmt.Errorf("marshal library %s: %w", lib.Name, err)
	}
	return data, nil
}

// Unmarshal restores a library serialized by Marshal.
func Unmarshal(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("unmarshal library: %w", err)
	}
	if lib.Decls == nil {
		lib.Decls = make(map[string]*Declaration)
	}
	// Declarations carry their name as the map key too; trust the key.
	for name, d := range lib.Decls {
		if d.Name == "" {
			d.Name = name
		}
		ensureSets(&d.Type)
		ensureSets(&d.Value)
	}
	return &lib, nil
}

func ensureSets(p *Payload) {
	if p.UsesProofs == nil {
		p.UsesProofs = make(NameSet)
	}
	if p.UsesOthers == nil {
		p.UsesOthers = make(NameSet)
	}
}
