// Tests for the log parser and recovery time scanner
package metrics

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logPrefix = "1317266583.046133000 Metrics.cc:140 in dump NOTICE[3:1]: "

// logLines joins lines into a log, prefixing each "Metrics:" payload with
// the usual timestamp and source location.
func logLines(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		if strings.HasPrefix(l, "Metrics: ") {
			b.WriteString(logPrefix)
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("two servers", func(t *testing.T) {
		t.Parallel()
		log := logLines(
			"unrelated startup noise",
			"Metrics: begin server mock:host=rc01,port=12246",
			"Metrics: master.recoveryCount 1",
			"Metrics: clockFrequency 2000000000",
			"Metrics: begin server mock:host=rc02,port=12246",
			"Metrics: backup.recoveryCount 1",
			"Metrics: backup.storageReadBytes 8388608",
		)
		servers, err := Parse(strings.NewReader(log), "client.rc99.log")
		require.NoError(t, err)
		require.Len(t, servers, 2)

		assert.Equal(t, "rc01", servers[0].Name)
		assert.Equal(t, "rc02", servers[1].Name)

		n, ok := servers[0].Record.Int(MustPath("clockFrequency"))
		assert.True(t, ok)
		assert.Equal(t, int64(2000000000), n)

		n, ok = servers[1].Record.Int(MustPath("backup.storageReadBytes"))
		assert.True(t, ok)
		assert.Equal(t, int64(8388608), n)
		_, ok = servers[1].Record.Lookup(MustPath("clockFrequency"))
		assert.False(t, ok, "metrics belong to the most recent server only")
	})

	t.Run("name without host token", func(t *testing.T) {
		t.Parallel()
		servers, err := Parse(strings.NewReader(logLines("Metrics: begin server infrc:fast")), "x.log")
		require.NoError(t, err)
		require.Len(t, servers, 1)
		assert.Equal(t, "infrc:fast", servers[0].Name)
		assert.Empty(t, servers[0].Record)
	})

	t.Run("windows line endings", func(t *testing.T) {
		t.Parallel()
		log := logPrefix + "Metrics: begin server host=a\r\n" + logPrefix + "Metrics: master.recoveryCount 7\r\n"
		servers, err := Parse(strings.NewReader(log), "x.log")
		require.NoError(t, err)
		n, ok := servers[0].Record.Int(MustPath("master.recoveryCount"))
		assert.True(t, ok)
		assert.Equal(t, int64(7), n)
	})

	t.Run("negative values", func(t *testing.T) {
		t.Parallel()
		servers, err := Parse(strings.NewReader(logLines(
			"Metrics: begin server host=a",
			"Metrics: temp.count0 -3",
		)), "x.log")
		require.NoError(t, err)
		n, _ := servers[0].Record.Int(MustPath("temp.count0"))
		assert.Equal(t, int64(-3), n)
	})

	t.Run("unsigned counters past int64", func(t *testing.T) {
		t.Parallel()
		servers, err := Parse(strings.NewReader(logLines(
			"Metrics: begin server host=a",
			"Metrics: transport.sessionOpenSquaredTicks 18446744073709551615",
			"Metrics: transport.sessionOpenTicks 9223372036854775807",
		)), "client.rc99.log")
		require.NoError(t, err)
		require.Len(t, servers, 1)

		v, ok := servers[0].Record.Lookup(MustPath("transport.sessionOpenSquaredTicks"))
		require.True(t, ok)
		assert.Equal(t, uint64(math.MaxUint64), v)

		f, ok := servers[0].Record.Float(MustPath("transport.sessionOpenSquaredTicks"))
		assert.True(t, ok)
		assert.InDelta(t, float64(math.MaxUint64), f, 1)

		n, ok := servers[0].Record.Int(MustPath("transport.sessionOpenTicks"))
		assert.True(t, ok)
		assert.Equal(t, int64(math.MaxInt64), n)
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		log  string
		kind error
		line int
	}{
		{
			name: "metric before begin server",
			log:  logLines("noise", "Metrics: master.recoveryCount 1", "Metrics: begin server host=a"),
			kind: ErrStructural,
			line: 2,
		},
		{
			name: "no metrics at all",
			log:  logLines("just", "noise"),
			kind: ErrEmptyLog,
		},
		{
			name: "empty file",
			log:  "",
			kind: ErrEmptyLog,
		},
		{
			name: "non-integer value",
			log:  logLines("Metrics: begin server host=a", "Metrics: master.recoveryCount lots"),
			kind: ErrMalformedLine,
			line: 2,
		},
		{
			name: "value past uint64",
			log:  logLines("Metrics: begin server host=a", "Metrics: transport.sessionOpenSquaredTicks 18446744073709551616"),
			kind: ErrMalformedLine,
			line: 2,
		},
		{
			name: "too many fields",
			log:  logLines("Metrics: begin server host=a", "Metrics: master.recoveryCount 1 2"),
			kind: ErrMalformedLine,
			line: 2,
		},
		{
			name: "empty path segment",
			log:  logLines("Metrics: begin server host=a", "Metrics: master..recoveryCount 1"),
			kind: ErrMalformedLine,
			line: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.log), "client.rc99.log")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), "client.rc99.log")

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ParseError{File: "c.log", Line: 4, Kind: ErrMalformedLine, Err: errors.New("bad value")}
	assert.Equal(t, "malformed metrics line in c.log:4: bad value", err.Error())

	err = &ParseError{File: "c.log", Kind: ErrEmptyLog}
	assert.Equal(t, "no metrics in c.log", err.Error())
	assert.NotErrorIs(t, err, ErrStructural)
}

func TestScanRecoveryNs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   string
		ns    int64
		found bool
	}{
		{
			name:  "single line",
			log:   "1.0 client.cc:10 NOTICE: Recovery completed in 1500000000 ns\n",
			ns:    1500000000,
			found: true,
		},
		{
			name:  "first match wins",
			log:   "Recovery completed in 10 ns\nRecovery completed in 20 ns\n",
			ns:    10,
			found: true,
		},
		{
			name: "absent",
			log:  "Recovery started\n",
		},
		{
			name: "needs word boundary",
			log:  "Recovery completed in 10 nsec\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ns, found, err := ScanRecoveryNs(strings.NewReader(tt.log))
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.ns, ns)
		})
	}
}
