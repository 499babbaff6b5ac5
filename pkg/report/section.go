// Report and Section: titled groups of aligned "label: columns (note)" lines
// Empty sections disappear from the rendered report
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Line is one labelled row of a Section.
type Line struct {
	Label   string
	Columns []string
	Note    string
}

// Text renders the right-hand side of the line: columns joined by " / ",
// followed by the note in parentheses.
func (l Line) Text() string {
	text := strings.Join(l.Columns, " / ")
	if l.Note != "" {
		text = fmt.Sprintf("%s  (%s)", text, l.Note)
	}
	return text
}

// Section is a titled part of a Report. Only lines whose metrics were
// present are ever added, so a Section may end up empty.
type Section struct {
	Title string
	lines []Line
}

// NewSection creates an empty section.
func NewSection(title string) *Section {
	return &Section{Title: title}
}

// Len is the number of lines in the section.
func (s *Section) Len() int { return len(s.lines) }

// Lines returns the section's lines in insertion order.
func (s *Section) Lines() []Line { return s.lines }

// Line adds a line that renders as "label: columns[0] / ... / columns[n] (note)".
func (s *Section) Line(label string, columns []string, note string) {
	s.lines = append(s.lines, Line{Label: label, Columns: columns, Note: note})
}

// String renders the section, or "" if it has no lines. Labels are padded
// to the width of the longest one.
func (s *Section) String() string {
	if len(s.lines) == 0 {
		return ""
	}
	width := 0
	for _, l := range s.lines {
		width = max(width, utf8.RuneCountInString(l.Label))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===", s.Title)
	for _, l := range s.lines {
		fmt.Fprintf(&b, "\n%-*s %s", width+1, l.Label+":", l.Text())
	}
	return b.String()
}

// Report is an ordered list of sections.
type Report struct {
	sections []*Section
}

// New creates an empty report.
func New() *Report {
	return &Report{}
}

// Add appends a section and returns it for chaining.
func (r *Report) Add(s *Section) *Section {
	r.sections = append(r.sections, s)
	return s
}

// Section adds a new empty section with the given title.
func (r *Report) Section(title string) *Section {
	return r.Add(NewSection(title))
}

// Sections returns every section, including empty ones.
func (r *Report) Sections() []*Section { return r.sections }

// NonEmpty returns the sections that have at least one line.
func (r *Report) NonEmpty() []*Section {
	var out []*Section
	for _, s := range r.sections {
		if s.Len() > 0 {
			out = append(out, s)
		}
	}
	return out
}

// String renders the non-empty sections separated by a blank line.
func (r *Report) String() string {
	parts := make([]string, 0, len(r.sections))
	for _, s := range r.NonEmpty() {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n\n")
}
