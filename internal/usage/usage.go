package usage

import (
	"fmt"
	"strings"

	"optconf/internal/registry"
)

// Render formats the option surface for display: the usage line if one
// is configured, then one row per option sorted by name. Display only,
// no effect on parsing.
func Render(reg *registry.Registry) string {
	var b strings.Builder

	if u := reg.Settings().Usage; u != "" {
		b.WriteString("Usage: ")
		b.WriteString(u)
		b.WriteString("\n\n")
	}
	b.WriteString("Options:\n")

	names := reg.Names()
	width := 0
	heads := make([]string, len(names))
	for i, name := range names {
		opt, _ := reg.Option(name)
		heads[i] = head(name, opt)
		if len(heads[i]) > width {
			width = len(heads[i])
		}
	}

	for i, name := range names {
		opt, _ := reg.Option(name)
		fmt.Fprintf(&b, "  %-*s  %s\n", width, heads[i], tail(opt))
	}
	return b.String()
}

func head(name string, opt registry.Option) string {
	s := "--" + name
	if opt.Short != "" {
		s += ", -" + opt.Short
	}
	return fmt.Sprintf("%s <%s>", s, opt.Kind)
}

func tail(opt registry.Option) string {
	s := opt.Description
	if opt.Default != nil {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("(default: %s)", opt.Default.String())
	}
	return s
}
