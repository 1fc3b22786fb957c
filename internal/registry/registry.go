package registry

import (
	"errors"
	"fmt"
	"sort"
	"unicode"

	"optconf/internal/value"
)

// ErrInvalidName is returned when an option name contains a character
// that is not a letter or digit.
var ErrInvalidName = errors.New("registry: option name must be alphanumeric")

// ErrDuplicateShort is returned when a short alias is already claimed by
// a different option.
var ErrDuplicateShort = errors.New("registry: short alias already in use")

// ErrUnknownOption is returned when a name has no registered descriptor.
var ErrUnknownOption = errors.New("registry: unknown option")

// Option describes one declared option. Kind and Multiple are forced by
// the registration call that inserts the option; the remaining fields
// come from the caller.
type Option struct {
	Kind        value.Kind
	Short       string
	Default     *value.Value
	Description string
	Rule        *Rule
	Multiple    bool
}

// Settings is process-wide parsing policy carried by the registry.
// AllowPositionals is advisory: the parser always collects positionals,
// and the entry point decides whether a non-empty sequence is an error.
type Settings struct {
	AllowPositionals bool
	EnvPrefix        string
	Usage            string
}

// Registry owns the declared options and the short-alias index.
// It is populated during setup and read-mostly afterwards; concurrent
// reads are safe only once registration has stopped.
type Registry struct {
	options  map[string]Option
	shorts   map[string]string
	settings Settings
}

// New returns an empty registry with the given settings.
func New(settings Settings) *Registry {
	return &Registry{
		options:  make(map[string]Option),
		shorts:   make(map[string]string),
		settings: settings,
	}
}

// Settings returns the registry's parsing policy.
func (r *Registry) Settings() Settings {
	return r.settings
}

// Register inserts a batch of options, forcing kind and multiple onto
// every entry. All names and aliases are checked before anything is
// inserted, so a failing batch leaves the registry unchanged. Inserting
// an already-registered name overwrites the prior descriptor; its short
// alias, if any, is re-pointed rather than leaked.
func (r *Registry) Register(kind value.Kind, multiple bool, batch map[string]Option) error {
	names := make([]string, 0, len(batch))
	for name := range batch {
		names = append(names, name)
	}
	sort.Strings(names)

	staged := make(map[string]string)
	for _, name := range names {
		if err := checkName(name); err != nil {
			return err
		}
		short := batch[name].Short
		if short == "" {
			continue
		}
		if owner, ok := r.shorts[short]; ok && owner != name {
			return fmt.Errorf("%w: %q claimed by %q", ErrDuplicateShort, short, owner)
		}
		if owner, ok := staged[short]; ok && owner != name {
			return fmt.Errorf("%w: %q claimed by %q", ErrDuplicateShort, short, owner)
		}
		staged[short] = name
	}

	for _, name := range names {
		opt := batch[name]
		opt.Kind = kind
		opt.Multiple = multiple
		r.insert(name, opt)
	}
	return nil
}

// Num registers number options.
func (r *Registry) Num(batch map[string]Option) error {
	return r.Register(value.Number, false, batch)
}

// NumList registers list-valued number options.
func (r *Registry) NumList(batch map[string]Option) error {
	return r.Register(value.Number, true, batch)
}

// Opt registers string options.
func (r *Registry) Opt(batch map[string]Option) error {
	return r.Register(value.String, false, batch)
}

// OptList registers list-valued string options.
func (r *Registry) OptList(batch map[string]Option) error {
	return r.Register(value.String, true, batch)
}

// Flag registers boolean options.
func (r *Registry) Flag(batch map[string]Option) error {
	return r.Register(value.Bool, false, batch)
}

// FlagList registers list-valued boolean options.
func (r *Registry) FlagList(batch map[string]Option) error {
	return r.Register(value.Bool, true, batch)
}

// ValidateName checks an option name and alias against the registry
// invariants and, on success, records the alias mapping. Registration
// calls do this implicitly; it is exported for callers that build
// descriptors outside the batch path.
func (r *Registry) ValidateName(name string, opt Option) error {
	if err := checkName(name); err != nil {
		return err
	}
	if opt.Short != "" {
		if owner, ok := r.shorts[opt.Short]; ok && owner != name {
			return fmt.Errorf("%w: %q claimed by %q", ErrDuplicateShort, opt.Short, owner)
		}
		r.shorts[opt.Short] = name
	}
	return nil
}

// Replace swaps the descriptor under name, removing the prior alias
// before validating the new one so the alias index cannot go stale.
func (r *Registry) Replace(name string, kind value.Kind, opt Option) error {
	if _, ok := r.options[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	prior := r.options[name]
	if prior.Short != "" && r.shorts[prior.Short] == name {
		delete(r.shorts, prior.Short)
	}
	opt.Kind = kind
	if err := r.ValidateName(name, opt); err != nil {
		// Restore the alias dropped above.
		if prior.Short != "" {
			r.shorts[prior.Short] = name
		}
		return err
	}
	r.options[name] = opt
	return nil
}

// Remove deletes an option and its alias-index entry, if any. It reports
// whether the name was registered.
func (r *Registry) Remove(name string) bool {
	opt, ok := r.options[name]
	if !ok {
		return false
	}
	if opt.Short != "" && r.shorts[opt.Short] == name {
		delete(r.shorts, opt.Short)
	}
	delete(r.options, name)
	return true
}

// Option looks up a descriptor by long name.
func (r *Registry) Option(name string) (Option, bool) {
	opt, ok := r.options[name]
	return opt, ok
}

// ResolveShort maps a short alias to its long name.
func (r *Registry) ResolveShort(short string) (string, bool) {
	name, ok := r.shorts[short]
	return name, ok
}

// Names returns all registered option names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.options))
	for name := range r.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered options.
func (r *Registry) Len() int {
	return len(r.options)
}

// SetDefault overwrites the default of a registered option. It reports
// whether the name was registered.
func (r *Registry) SetDefault(name string, v value.Value) bool {
	opt, ok := r.options[name]
	if !ok {
		return false
	}
	opt.Default = &v
	r.options[name] = opt
	return true
}

func (r *Registry) insert(name string, opt Option) {
	if prior, ok := r.options[name]; ok && prior.Short != "" && r.shorts[prior.Short] == name {
		delete(r.shorts, prior.Short)
	}
	r.options[name] = opt
	if opt.Short != "" {
		r.shorts[opt.Short] = name
	}
}

func checkName(name string) error {
	for _, c := range name {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}
