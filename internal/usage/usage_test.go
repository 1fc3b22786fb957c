package usage

import (
	"strings"
	"testing"

	"optconf/internal/registry"
	"optconf/internal/value"
)

func TestRender(t *testing.T) {
	reg := registry.New(registry.Settings{Usage: "mytool [flags] [files...]"})
	def := value.Num(8080)
	if err := reg.Num(map[string]registry.Option{
		"port": {Short: "p", Default: &def, Description: "listen port"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Flag(map[string]registry.Option{
		"verbose": {Short: "v"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got := Render(reg)

	for _, want := range []string{
		"Usage: mytool [flags] [files...]",
		"Options:",
		"--port, -p <number>",
		"listen port (default: 8080)",
		"--verbose, -v <boolean>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered usage missing %q:\n%s", want, got)
		}
	}

	// Rows are sorted by option name.
	if strings.Index(got, "--port") > strings.Index(got, "--verbose") {
		t.Errorf("options not sorted by name:\n%s", got)
	}
}

func TestRender_NoUsageLine(t *testing.T) {
	reg := registry.New(registry.Settings{})
	if err := reg.Opt(map[string]registry.Option{"name": {}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got := Render(reg)
	if strings.Contains(got, "Usage:") {
		t.Errorf("unexpected usage line without configured usage text:\n%s", got)
	}
	if !strings.Contains(got, "--name <string>") {
		t.Errorf("missing option row:\n%s", got)
	}
}
