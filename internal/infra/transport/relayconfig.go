package transport

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// targetPlaceholder marks where the escaped target URL is inserted into a
// relay URL template.
const targetPlaceholder = "{target}"

// relayFile is the YAML shape of a relay configuration file.
type relayFile struct {
	Relays []relaySpec `yaml:"relays"`
}

type relaySpec struct {
	Name string `yaml:"name"`
	// URLTemplate must contain {target}, replaced with the escaped target.
	URLTemplate string `yaml:"url_template"`
	// Decode selects the response decoder: "raw" (default) or
	// "json_contents" for allorigins-style JSON envelopes.
	Decode string `yaml:"decode"`
}

// LoadRelaysFromYAML reads a relay chain definition from a YAML file,
// allowing operators to reorder, remove, or add relay services without a
// rebuild. Order in the file is the attempt order.
func LoadRelaysFromYAML(path string) ([]Relay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read relay config: %w", err)
	}

	var file relayFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse relay config: %w", err)
	}
	if len(file.Relays) == 0 {
		return nil, fmt.Errorf("relay config %s defines no relays", path)
	}

	relays := make([]Relay, 0, len(file.Relays))
	for i, spec := range file.Relays {
		relay, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("relay %d (%s): %w", i, spec.Name, err)
		}
		relays = append(relays, relay)
	}
	return relays, nil
}

func (s relaySpec) build() (Relay, error) {
	if s.Name == "" {
		return Relay{}, fmt.Errorf("missing name")
	}
	if !strings.Contains(s.URLTemplate, targetPlaceholder) {
		return Relay{}, fmt.Errorf("url_template must contain %s", targetPlaceholder)
	}

	template := s.URLTemplate
	relay := Relay{
		Name: s.Name,
		Wrap: func(target string) string {
			return strings.Replace(template, targetPlaceholder, url.QueryEscape(target), 1)
		},
	}

	switch s.Decode {
	case "", "raw":
	case "json_contents":
		relay.Decode = DecodeJSONContents
	default:
		return Relay{}, fmt.Errorf("unknown decode %q", s.Decode)
	}
	return relay, nil
}
