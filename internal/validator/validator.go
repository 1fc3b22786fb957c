package validator

import (
	"errors"
	"fmt"
	"sort"

	"optconf/internal/registry"
	"optconf/internal/value"
)

// Reason classifies a validation failure.
type Reason string

const (
	UnknownOption   Reason = "unknown-option"
	TypeMismatch    Reason = "type-mismatch"
	OutOfRange      Reason = "out-of-range"
	PatternMismatch Reason = "pattern-mismatch"
)

// Error is a single validation failure.
type Error struct {
	Name   string
	Reason Reason
	Value  value.Value
	Detail string
}

func (e Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Name, e.Detail, e.Reason)
	}
	return fmt.Sprintf("%s: invalid value %q (%s)", e.Name, e.Value.String(), e.Reason)
}

// Result contains all validation outcomes for one value set.
type Result struct {
	Valid  bool
	Errors []Error
}

// Err folds the result into a single error, nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Validate checks every (name, value) pair against the registered rule
// for that name. All failures are collected rather than stopping at the
// first; errors are ordered by option name so output is stable.
func Validate(reg *registry.Registry, values map[string]value.Value) Result {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []Error
	for _, name := range names {
		v := values[name]
		opt, ok := reg.Option(name)
		if !ok {
			errs = append(errs, Error{
				Name:   name,
				Reason: UnknownOption,
				Value:  v,
				Detail: "not a registered option",
			})
			continue
		}
		if e := check(name, opt, v); e != nil {
			errs = append(errs, *e)
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// check applies one option's rule to one value. A nil rule means a bare
// kind check; an explicit RuleNone passes everything.
func check(name string, opt registry.Option, v value.Value) *Error {
	if opt.Rule == nil {
		if v.Kind() != opt.Kind {
			return &Error{
				Name:   name,
				Reason: TypeMismatch,
				Value:  v,
				Detail: fmt.Sprintf("got %s, want %s", v.Kind(), opt.Kind),
			}
		}
		return nil
	}

	switch opt.Rule.Kind {
	case registry.RuleNone:
		return nil
	case registry.RuleRange:
		if v.Kind() == value.Number && v.Num() >= opt.Rule.Min && v.Num() <= opt.Rule.Max {
			return nil
		}
		return &Error{
			Name:   name,
			Reason: OutOfRange,
			Value:  v,
			Detail: fmt.Sprintf("must be a number in [%d, %d]", opt.Rule.Min, opt.Rule.Max),
		}
	case registry.RulePattern:
		if v.Kind() == value.String && v.Str() == opt.Rule.Pattern {
			return nil
		}
		return &Error{
			Name:   name,
			Reason: PatternMismatch,
			Value:  v,
			Detail: fmt.Sprintf("must equal %q", opt.Rule.Pattern),
		}
	}
	return nil
}
