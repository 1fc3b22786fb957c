package schema

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"optconf/internal/registry"
	"optconf/internal/value"
)

// schemaFile is the YAML file structure.
type schemaFile struct {
	Prefix      string                 `yaml:"prefix,omitempty"`
	Usage       string                 `yaml:"usage,omitempty"`
	Positionals bool                   `yaml:"positionals,omitempty"`
	Options     map[string]optionEntry `yaml:"options"`
}

// optionEntry is a single option declaration in YAML. Defaults are
// written as text and decoded per the declared type.
type optionEntry struct {
	Type        string  `yaml:"type"`
	Short       string  `yaml:"short,omitempty"`
	Default     *string `yaml:"default,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Range       []int64 `yaml:"range,omitempty"`
	Pattern     *string `yaml:"pattern,omitempty"`
	Multiple    bool    `yaml:"multiple,omitempty"`
}

// Parse builds a populated registry from YAML content. Every entry goes
// through the normal registration path, so name and alias invariants
// hold for schema-declared options exactly as for code-declared ones.
func Parse(content []byte) (*registry.Registry, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(content, &sf); err != nil {
		return nil, fmt.Errorf("schema: invalid YAML: %w", err)
	}

	reg := registry.New(registry.Settings{
		AllowPositionals: sf.Positionals,
		EnvPrefix:        sf.Prefix,
		Usage:            sf.Usage,
	})

	names := make([]string, 0, len(sf.Options))
	for name := range sf.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := sf.Options[name]
		kind, err := kindOf(entry.Type, name)
		if err != nil {
			return nil, err
		}

		opt := registry.Option{
			Short:       entry.Short,
			Description: entry.Description,
		}

		rule, err := ruleOf(entry, name)
		if err != nil {
			return nil, err
		}
		opt.Rule = rule

		if entry.Default != nil {
			v, err := value.Decode(*entry.Default, kind)
			if err != nil {
				return nil, fmt.Errorf("schema: default for option %q: %w", name, err)
			}
			opt.Default = &v
		}

		if err := reg.Register(kind, entry.Multiple, map[string]registry.Option{name: opt}); err != nil {
			return nil, fmt.Errorf("schema: option %q: %w", name, err)
		}
	}

	return reg, nil
}

// LoadFile reads and parses a schema file from disk.
func LoadFile(path string) (*registry.Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

func kindOf(text, name string) (value.Kind, error) {
	switch value.Kind(text) {
	case value.Number, value.String, value.Bool:
		return value.Kind(text), nil
	}
	return "", fmt.Errorf("schema: unknown type %q for option %q", text, name)
}

func ruleOf(entry optionEntry, name string) (*registry.Rule, error) {
	if len(entry.Range) > 0 && entry.Pattern != nil {
		return nil, fmt.Errorf("schema: option %q declares both range and pattern", name)
	}
	if len(entry.Range) > 0 {
		if len(entry.Range) != 2 {
			return nil, fmt.Errorf("schema: range for option %q must be [min, max]", name)
		}
		if entry.Range[0] > entry.Range[1] {
			return nil, fmt.Errorf("schema: range for option %q has min > max", name)
		}
		return registry.NumberRange(entry.Range[0], entry.Range[1]), nil
	}
	if entry.Pattern != nil {
		return registry.Pattern(*entry.Pattern), nil
	}
	return nil, nil
}
