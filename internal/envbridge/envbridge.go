package envbridge

import (
	"fmt"
	"os"
	"strings"

	"optconf/internal/parser"
	"optconf/internal/registry"
	"optconf/internal/value"
)

// Store is the key-value capability the bridge reads and writes through.
// Production code passes Process; tests pass a Map so nothing touches
// real process state.
type Store interface {
	Lookup(key string) (string, bool)
	Set(key, val string) error
}

type processStore struct{}

// Process returns a Store backed by the process environment. Callers
// sharing it across goroutines must serialize mutation themselves.
func Process() Store {
	return processStore{}
}

func (processStore) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (processStore) Set(key, val string) error {
	return os.Setenv(key, val)
}

// Map is an in-memory Store.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Map) Set(key, val string) error {
	m[key] = val
	return nil
}

// FromEnviron builds a Map from "KEY=VALUE" pairs as produced by
// os.Environ. Values may contain "="; entries without one are skipped.
func FromEnviron(environ []string) Map {
	m := make(Map, len(environ))
	for _, entry := range environ {
		idx := strings.Index(entry, "=")
		if idx == -1 {
			continue
		}
		m[entry[:idx]] = entry[idx+1:]
	}
	return m
}

// Key derives the environment variable name for an option.
func Key(prefix, name string) string {
	return strings.ToUpper(prefix) + "_" + strings.ToUpper(name)
}

// WriteEnv exports every parsed value to the store under the registry's
// prefix. Without a prefix it does nothing. Writes are independent and
// unconditional; the first store failure is reported but later writes
// still happen.
func WriteEnv(reg *registry.Registry, res parser.Result, store Store) error {
	prefix := reg.Settings().EnvPrefix
	if prefix == "" {
		return nil
	}

	names := make([]string, 0, len(res.Values))
	for name := range res.Values {
		names = append(names, name)
	}

	var firstErr error
	for _, name := range names {
		key := Key(prefix, name)
		if err := store.Set(key, value.Encode(res.Values[name])); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("envbridge: set %s: %w", key, err)
		}
	}
	return firstErr
}

// SetDefaultsFromEnv overwrites option defaults from the store. Options
// whose variable is absent keep their default; without a prefix the call
// is a no-op. A value that cannot be decoded as the option's kind stops
// the scan and is reported with its variable name.
func SetDefaultsFromEnv(reg *registry.Registry, store Store) error {
	prefix := reg.Settings().EnvPrefix
	if prefix == "" {
		return nil
	}

	for _, name := range reg.Names() {
		opt, ok := reg.Option(name)
		if !ok {
			continue
		}
		key := Key(prefix, name)
		text, ok := store.Lookup(key)
		if !ok {
			continue
		}
		v, err := value.Decode(text, opt.Kind)
		if err != nil {
			return fmt.Errorf("envbridge: %s: %w", key, err)
		}
		reg.SetDefault(name, v)
	}
	return nil
}
