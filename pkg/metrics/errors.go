// Parse failure kinds for recovery logs
package metrics

import (
	"errors"
	"fmt"
)

// Kinds of parse failure. Use errors.Is on a *ParseError to tell them apart.
var (
	ErrStructural    = errors.New(`metrics data before "begin server"`)
	ErrEmptyLog      = errors.New("no metrics")
	ErrMalformedLine = errors.New("malformed metrics line")
)

// ParseError reports a fatal problem in a log file.
type ParseError struct {
	File string
	Line int // 1-based; 0 when the error concerns the whole file
	Kind error
	Err  error // optional underlying cause
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%v in %s", e.Kind, e.File)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error's kind.
func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
