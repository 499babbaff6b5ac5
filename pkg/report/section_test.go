// Tests for section layout and the table and YAML renderings
package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSectionString(t *testing.T) {
	t.Parallel()

	t.Run("empty section renders nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, NewSection("Empty").String())
	})

	t.Run("labels are aligned", func(t *testing.T) {
		t.Parallel()
		s := NewSection("Summary")
		s.Line("Masters", []string{"     2"}, "")
		s.Line("  Reading", []string{"a", "b"}, "note")
		want := "=== Summary ===\n" +
			"Masters:        2\n" +
			"  Reading: a / b  (note)"
		assert.Equal(t, want, s.String())
	})

	t.Run("non-ASCII labels align by rune", func(t *testing.T) {
		t.Parallel()
		s := NewSection("Summary")
		s.Line("Übertragung", []string{"1"}, "")
		s.Line("Masters", []string{"2"}, "")
		want := "=== Summary ===\n" +
			"Übertragung: 1\n" +
			"Masters:     2"
		assert.Equal(t, want, s.String())
	})
}

func TestReportString(t *testing.T) {
	t.Parallel()

	r := New()
	r.Section("One").Line("a", []string{"1"}, "")
	r.Section("Skipped")
	r.Section("Two").Line("b", []string{"2"}, "")

	assert.Len(t, r.Sections(), 3)
	assert.Len(t, r.NonEmpty(), 2)
	assert.Equal(t, "=== One ===\na: 1\n\n=== Two ===\nb: 2", r.String())
	assert.Empty(t, New().String())
}

func TestReportOnlyEmptySections(t *testing.T) {
	t.Parallel()

	r := New()
	r.Section("A")
	r.Section("B")

	assert.Len(t, r.Sections(), 2)
	assert.Empty(t, r.NonEmpty())
	assert.Empty(t, r.String())

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, r))
	assert.Empty(t, buf.String())

	data, err := MarshalYAML(r)
	require.NoError(t, err)
	assert.Equal(t, "sections: []\n", string(data))
}

func sampleReport() *Report {
	r := New()
	s := r.Section("Summary")
	AvgStd(s, "Masters", []int{2})
	AvgMaxFrac(s, "Objects per master", []int64{50, 150}, WithTotal(200), WithNote("per master"))
	r.Section("Empty")
	return r
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Objects per master")
	assert.Contains(t, out, "max  150.0")
	assert.Contains(t, out, "(per master)")
	assert.NotContains(t, out, "Empty")
	assert.Equal(t, 1, strings.Count(out, "Masters"))
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	data, err := MarshalYAML(sampleReport())
	require.NoError(t, err)

	var doc yamlReport
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Sections, 1)

	sec := doc.Sections[0]
	assert.Equal(t, "Summary", sec.Title)
	require.Len(t, sec.Lines, 2)
	assert.Equal(t, "Masters", sec.Lines[0].Label)
	assert.Equal(t, "     2", sec.Lines[0].Text)
	assert.Empty(t, sec.Lines[0].Note)
	assert.Equal(t, []string{" 100.0 avg", "max  150.0", "50.00% avg"}, sec.Lines[1].Columns)
	assert.Equal(t, "per master", sec.Lines[1].Note)
}

func TestMarshalYAMLEmptyReport(t *testing.T) {
	t.Parallel()

	data, err := MarshalYAML(New())
	require.NoError(t, err)
	assert.Equal(t, "sections: []\n", string(data))
}
