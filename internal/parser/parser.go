package parser

import (
	"fmt"
	"strings"

	"optconf/internal/registry"
	"optconf/internal/value"
)

// Result is the output of one parse: values keyed by long option name,
// plus positional tokens in encountered order. A Result owns its data
// and holds no reference to the registry it was parsed against.
type Result struct {
	Values      map[string]value.Value
	Positionals []string
}

// Parse scans args left to right against the registry. Expected input is
// a process argument vector minus the program name, already split on
// whitespace.
//
// Long options ("--name") and short aliases ("-x") resolve through the
// registry: boolean options are set true by presence alone, every other
// kind consumes the following token as its value. Unregistered names and
// options missing their trailing value are silently skipped; tokens that
// are neither are collected as positionals. The only error is a value
// token that cannot be coerced to the option's kind.
func Parse(reg *registry.Registry, args []string) (Result, error) {
	res := Result{Values: make(map[string]value.Value)}

	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "--"):
			used, err := consume(reg, strings.TrimPrefix(arg, "--"), args, i, &res)
			if err != nil {
				return Result{}, err
			}
			i += used
		case strings.HasPrefix(arg, "-"):
			if name, ok := reg.ResolveShort(strings.TrimPrefix(arg, "-")); ok {
				used, err := consume(reg, name, args, i, &res)
				if err != nil {
					return Result{}, err
				}
				i += used
			}
		default:
			res.Positionals = append(res.Positionals, arg)
		}
		i++
	}
	return res, nil
}

// consume records one named option at position i, returning how many
// extra tokens were used beyond the option token itself.
func consume(reg *registry.Registry, name string, args []string, i int, res *Result) (int, error) {
	opt, ok := reg.Option(name)
	if !ok {
		// Unknown names are dropped, not treated as positionals.
		return 0, nil
	}
	if opt.Kind == value.Bool {
		res.Values[name] = value.Flag(true)
		return 0, nil
	}
	if i+1 >= len(args) {
		// Option at end of input with no value to consume.
		return 0, nil
	}
	v, err := value.Decode(args[i+1], opt.Kind)
	if err != nil {
		return 0, fmt.Errorf("parser: option --%s: %w", name, err)
	}
	res.Values[name] = v
	return 1, nil
}
