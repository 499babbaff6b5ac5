// Alternative report renderings: boxed tables and YAML
// Both skip empty sections, like the plain text form
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// RenderTable writes each non-empty section as a table with one row per
// line: the label, each column in its own cell, then the note.
func RenderTable(w io.Writer, r *Report) error {
	for i, s := range r.NonEmpty() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetTitle(s.Title)
		for _, l := range s.Lines() {
			row := table.Row{l.Label}
			for _, c := range l.Columns {
				row = append(row, c)
			}
			if l.Note != "" {
				row = append(row, "("+l.Note+")")
			}
			t.AppendRow(row)
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

type yamlReport struct {
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Title string     `yaml:"title"`
	Lines []yamlLine `yaml:"lines"`
}

type yamlLine struct {
	Label   string   `yaml:"label"`
	Text    string   `yaml:"text"`
	Columns []string `yaml:"columns,flow"`
	Note    string   `yaml:"note,omitempty"`
}

// MarshalYAML produces a YAML document listing every non-empty section.
func MarshalYAML(r *Report) ([]byte, error) {
	doc := yamlReport{Sections: []yamlSection{}}
	for _, s := range r.NonEmpty() {
		ys := yamlSection{Title: s.Title}
		for _, l := range s.Lines() {
			ys.Lines = append(ys.Lines, yamlLine{
				Label:   l.Label,
				Text:    l.Text(),
				Columns: l.Columns,
				Note:    l.Note,
			})
		}
		doc.Sections = append(doc.Sections, ys)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}
	return out, nil
}
