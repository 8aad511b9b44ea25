package report

import (
	"strings"

	"github.com/starford/labkit/internal/models"
)

// Checklist renders a protocol as a printable bench checklist with
// tick boxes for materials and steps.
func Checklist(p *models.Protocol) string {
	var b builder
	b.line("PROTOCOL CHECKLIST: %s", p.Name)
	b.line("Date: _____________  Performed by: _____________")
	b.line("Version: %d", p.Version)
	b.line(strings.Repeat("=", 70))

	if len(p.Materials) > 0 {
		b.line("")
		b.line("MATERIALS CHECKLIST:")
		for _, m := range p.Materials {
			b.line("[ ] %s", m)
		}
	}

	b.line("")
	b.line("PROCEDURE CHECKLIST:")
	for i, step := range p.Steps {
		b.line("[ ] Step %d: %s", i+1, step.Summary())
	}

	b.line("")
	b.line(strings.Repeat("=", 70))
	b.line("Notes:")
	b.line(strings.Repeat("_", 70))
	b.line(strings.Repeat("_", 70))
	return b.String()
}
