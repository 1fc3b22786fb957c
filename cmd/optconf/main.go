package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"optconf/internal/envbridge"
	"optconf/internal/parser"
	"optconf/internal/registry"
	"optconf/internal/schema"
	"optconf/internal/usage"
	"optconf/internal/validator"
	"optconf/internal/value"
)

const ownUsage = `usage: optconf --schema <file> [--write-env] [--json] [--help] [args...]

Loads an option schema, seeds defaults from the environment, parses the
remaining arguments against it, validates the result, and prints the
resolved values.`

var errColor = color.New(color.FgRed)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// run orchestrates the full flow and returns an exit code: 0 on success,
// 1 for validation failures, 2 for usage and schema errors. Separated
// from main() to enable testing.
func run(args []string, environ []string, stdout, stderr io.Writer) int {
	var (
		schemaPath string
		writeEnv   bool
		jsonOut    bool
		help       bool
	)

	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--schema":
			if i+1 >= len(args) {
				errColor.Fprintln(stderr, "error: --schema requires a value")
				return 2
			}
			i++
			schemaPath = args[i]
		case "--write-env":
			writeEnv = true
		case "--json":
			jsonOut = true
		case "--help":
			help = true
		default:
			rest = append(rest, args[i])
		}
	}

	if schemaPath == "" {
		if help {
			fmt.Fprintln(stdout, ownUsage)
			return 0
		}
		errColor.Fprintln(stderr, "error: missing --schema <file>")
		fmt.Fprintln(stderr, ownUsage)
		return 2
	}

	reg, err := schema.LoadFile(schemaPath)
	if err != nil {
		errColor.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if help {
		fmt.Fprint(stdout, usage.Render(reg))
		return 0
	}

	if err := envbridge.SetDefaultsFromEnv(reg, envbridge.FromEnviron(environ)); err != nil {
		errColor.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	res, err := parser.Parse(reg, rest)
	if err != nil {
		errColor.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	// The registry's positional policy is advisory; enforcing it is the
	// entry point's job.
	if !reg.Settings().AllowPositionals && len(res.Positionals) > 0 {
		errColor.Fprintf(stderr, "error: unexpected arguments: %v\n", res.Positionals)
		return 1
	}

	vres := validator.Validate(reg, res.Values)
	if !vres.Valid {
		for _, verr := range vres.Errors {
			errColor.Fprintln(stderr, verr.Error())
		}
		errColor.Fprintf(stderr, "validation failed: %d error(s)\n", len(vres.Errors))
		return 1
	}

	if jsonOut {
		if err := printJSON(stdout, reg, res); err != nil {
			errColor.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
	} else {
		printText(stdout, reg, res)
	}

	if writeEnv {
		if err := envbridge.WriteEnv(reg, res, envbridge.Process()); err != nil {
			errColor.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
	}
	return 0
}

// resolved merges parsed values over registered defaults. Options with
// neither are left out.
func resolved(reg *registry.Registry, res parser.Result) map[string]value.Value {
	out := make(map[string]value.Value)
	for _, name := range reg.Names() {
		opt, _ := reg.Option(name)
		if opt.Default != nil {
			out[name] = *opt.Default
		}
	}
	for name, v := range res.Values {
		out[name] = v
	}
	return out
}

func printText(w io.Writer, reg *registry.Registry, res parser.Result) {
	values := resolved(reg, res)
	for _, name := range reg.Names() {
		if v, ok := values[name]; ok {
			fmt.Fprintf(w, "%s = %s\n", name, v.String())
		}
	}
	for _, p := range res.Positionals {
		fmt.Fprintf(w, "positional: %s\n", p)
	}
}

func printJSON(w io.Writer, reg *registry.Registry, res parser.Result) error {
	values := resolved(reg, res)
	out := struct {
		Values      map[string]any `json:"values"`
		Positionals []string       `json:"positionals"`
	}{
		Values:      make(map[string]any, len(values)),
		Positionals: res.Positionals,
	}
	for name, v := range values {
		switch v.Kind() {
		case value.Number:
			out.Values[name] = v.Num()
		case value.Bool:
			out.Values[name] = v.Flag()
		default:
			out.Values[name] = v.Str()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
