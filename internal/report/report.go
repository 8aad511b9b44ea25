// Package report compiles records into formatted text reports. Every
// compile function is pure: records plus a generation time in,
// deterministic text out. Sections backed by empty data are omitted
// entirely, heading included.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/labkit/internal/models"
)

const (
	bannerWidth = 80
	generatedAt = "2006-01-02 15:04:05"
)

type builder struct {
	strings.Builder
}

func (b *builder) line(format string, args ...any) {
	fmt.Fprintf(b, format+"\n", args...)
}

func (b *builder) banner(title string) {
	b.line(strings.Repeat("=", bannerWidth))
	b.line(title)
	b.line(strings.Repeat("=", bannerWidth))
	b.line("")
}

func (b *builder) section(heading string) {
	b.line(heading)
	b.line(strings.Repeat("-", bannerWidth))
}

func (b *builder) footer(now time.Time) {
	b.line(strings.Repeat("=", bannerWidth))
	b.line("Report generated: %s", now.Format(generatedAt))
	b.line(strings.Repeat("=", bannerWidth))
}

// Experiment compiles the full experiment report.
func Experiment(exp *models.Experiment, now time.Time) string {
	var b builder
	b.banner("EXPERIMENT REPORT")

	b.line("Title: %s", exp.Title)
	b.line("Experiment ID: %s", exp.ID)
	b.line("Date: %s", exp.Created)
	b.line("Status: %s", exp.Status)
	if exp.ProtocolID != "" {
		b.line("Protocol: %s", exp.ProtocolID)
	}
	b.line("")

	if exp.Objective != "" {
		b.section("OBJECTIVE")
		b.line("%s", exp.Objective)
		b.line("")
	}
	if exp.Hypothesis != "" {
		b.section("HYPOTHESIS")
		b.line("%s", exp.Hypothesis)
		b.line("")
	}
	if len(exp.Materials) > 0 {
		b.section("MATERIALS")
		for _, m := range exp.Materials {
			b.line("  • %s", m)
		}
		b.line("")
	}
	if exp.ProtocolID != "" {
		b.section("METHODS")
		b.line("Protocol: %s", exp.ProtocolID)
		b.line("See protocol document for detailed procedures.")
		b.line("")
	}
	if len(exp.Observations) > 0 {
		b.section("OBSERVATIONS")
		for i, obs := range exp.Observations {
			b.line("%d. [%s]", i+1, obs.Timestamp)
			b.line("   %s", obs.Observation)
			b.line("")
		}
	}
	if len(exp.Results) > 0 {
		b.section("RESULTS")
		for _, k := range sortedKeys(exp.Results) {
			b.line("  %s: %s", k, exp.Results[k])
		}
		b.line("")
	}
	if exp.Conclusions != "" {
		b.section("CONCLUSIONS")
		b.line("%s", exp.Conclusions)
		b.line("")
	}
	if len(exp.Attachments) > 0 {
		b.section("ATTACHMENTS")
		for _, att := range exp.Attachments {
			b.line("  • %s: %s", att.Type, att.File)
		}
		b.line("")
	}

	b.footer(now)
	return b.String()
}

// ProtocolSummary compiles the protocol summary report.
func ProtocolSummary(p *models.Protocol, now time.Time) string {
	var b builder
	b.banner("PROTOCOL SUMMARY")

	b.line("Protocol: %s", p.Name)
	b.line("ID: %s", p.ID)
	b.line("Version: %d", p.Version)
	b.line("Created: %s", p.Created)
	if len(p.Tags) > 0 {
		b.line("Tags: %s", strings.Join(p.Tags, ", "))
	}
	b.line("")

	b.section("DESCRIPTION")
	b.line("%s", p.Description)
	b.line("")

	if len(p.Materials) > 0 {
		b.section("REQUIRED MATERIALS")
		for i, m := range p.Materials {
			b.line("%d. %s", i+1, m)
		}
		b.line("")
	}

	b.section("PROCEDURE")
	for i, step := range p.Steps {
		b.line("Step %d:", i+1)
		if step.IsFreeText() {
			b.line("  %s", step.Text)
		} else {
			b.line("  Action: %s", step.Action)
			if step.Duration != "" {
				b.line("  Duration: %s", step.Duration)
			}
			if step.Temperature != "" {
				b.line("  Temperature: %s", step.Temperature)
			}
			if step.Notes != "" {
				b.line("  Notes: %s", step.Notes)
			}
		}
		b.line("")
	}

	if p.Notes != "" {
		b.section("ADDITIONAL NOTES")
		b.line("%s", p.Notes)
		b.line("")
	}

	b.footer(now)
	return b.String()
}

// lowStockThreshold marks samples for the inventory report's alert
// section.
const lowStockThreshold = 10

// Inventory compiles the inventory status report: per-type summary
// counts, detailed per-type listing, then low stock alerts.
func Inventory(samples []models.Sample, now time.Time) string {
	var b builder
	b.banner("INVENTORY REPORT")

	b.line("Generated: %s", now.Format(generatedAt))
	b.line("Total Samples: %d", len(samples))
	b.line("")

	byType := map[string][]models.Sample{}
	for _, s := range samples {
		byType[s.Type] = append(byType[s.Type], s)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	b.section("SUMMARY BY TYPE")
	for _, t := range types {
		var available, depleted int
		for _, s := range byType[t] {
			switch s.Status {
			case models.StatusAvailable:
				available++
			case models.StatusDepleted:
				depleted++
			}
		}
		b.line("%s:", t)
		b.line("  Total: %d", len(byType[t]))
		b.line("  Available: %d", available)
		b.line("  Depleted: %d", depleted)
	}
	b.line("")

	b.section("DETAILED INVENTORY")
	b.line("")
	for _, t := range types {
		b.line("%s", strings.ToUpper(t))
		b.line(strings.Repeat("-", 40))
		for _, s := range byType[t] {
			b.line("ID: %s", s.SampleID)
			b.line("  Description: %s", s.Description)
			b.line("  Status: %s", s.Status)
			b.line("  Quantity: %v %s", s.Quantity, s.Unit)
			b.line("  Location: %s", s.Location)
			if s.Concentration != "" {
				b.line("  Concentration: %s", s.Concentration)
			}
			b.line("")
		}
	}

	var lowStock []models.Sample
	for _, s := range samples {
		if s.Quantity <= lowStockThreshold && s.Status == models.StatusAvailable {
			lowStock = append(lowStock, s)
		}
	}
	if len(lowStock) > 0 {
		b.section("LOW STOCK ALERTS")
		for _, s := range lowStock {
			b.line("⚠ %s: %v %s", s.SampleID, s.Quantity, s.Unit)
		}
		b.line("")
	}

	b.line(strings.Repeat("=", bannerWidth))
	b.line("END OF REPORT")
	b.line(strings.Repeat("=", bannerWidth))
	return b.String()
}

// Weekly compiles the activity summary for experiments created inside
// [start, end] (timestamps compared lexically in the record format).
func Weekly(experiments []models.Experiment, start, end string, now time.Time) string {
	var b builder
	b.banner("WEEKLY ACTIVITY SUMMARY")

	b.line("Period: %s to %s", start, end)
	b.line("Generated: %s", now.Format(generatedAt))
	b.line("")

	var week []models.Experiment
	for _, e := range experiments {
		if start <= e.Created && e.Created <= end {
			week = append(week, e)
		}
	}

	var completed, inProgress int
	for _, e := range week {
		switch e.Status {
		case models.StatusCompleted:
			completed++
		case models.StatusInProgress:
			inProgress++
		}
	}

	b.section("STATISTICS")
	b.line("Total Experiments: %d", len(week))
	b.line("Completed: %d", completed)
	b.line("In Progress: %d", inProgress)
	b.line("")

	if len(week) > 0 {
		b.section("EXPERIMENTS")
		for _, e := range week {
			b.line("")
			b.line("%s", e.Title)
			b.line("  ID: %s", e.ID)
			b.line("  Status: %s", e.Status)
			b.line("  Date: %s", e.Created)
			if len(e.Tags) > 0 {
				b.line("  Tags: %s", strings.Join(e.Tags, ", "))
			}
		}
	} else {
		b.line("No experiments in this period.")
	}

	b.line("")
	b.line(strings.Repeat("=", bannerWidth))
	b.line("END OF SUMMARY")
	b.line(strings.Repeat("=", bannerWidth))
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
