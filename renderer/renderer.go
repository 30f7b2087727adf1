// Package renderer renders simulations and comparisons as markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
)

//go:embed *.md
var templates embed.FS

// Simulation is the view rendered by [RenderSimulation].
type Simulation struct {
	Ticker   string
	From, To date.Date // first and last period
	*dca.Simulation
}

// Comparison is the view rendered by [RenderComparison].
type Comparison struct {
	Ticker1, Ticker2 string
	*dca.Comparison
}

// RenderSimulation renders the summary and the ledger of a simulation to a markdown string.
func RenderSimulation(sim *dca.Simulation, ticker string) string {
	partials := map[string]string{
		"simulation_summary": "simulation_summary.md",
		"simulation_ledger":  "simulation_ledger.md",
	}
	view := Simulation{Ticker: ticker, Simulation: sim}
	if n := len(sim.Ledger); n > 0 {
		view.From, view.To = sim.Ledger[0].On, sim.Ledger[n-1].On
	}
	return renderTemplate("simulation", "simulation.md", partials, view)
}

// RenderComparison renders the aligned series of two tickers to a markdown string.
func RenderComparison(cmp *dca.Comparison, ticker1, ticker2 string) string {
	return renderTemplate("comparison", "comparison.md", nil, Comparison{Ticker1: ticker1, Ticker2: ticker2, Comparison: cmp})
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
