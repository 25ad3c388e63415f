/*
Package diag collects semantic diagnostics for a translation unit.

Reporters accept printf-style messages with one extension: the '%t' verb
formats a ctype.Type in C surface syntax. Semantic errors in C are fatal
for the translation unit; callers of the symbol table receive them as
ordinary Go errors and decide whether to stop, while the reporter keeps
count and traces every message.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/cee/ctype"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cee.diag'.
func tracer() tracing.Trace {
	return tracing.Select("cee.diag")
}

// Reporter receives semantic diagnostics.
type Reporter interface {
	// Errorf reports a fatal semantic error. The format accepts the '%t'
	// verb for ctype.Type arguments.
	Errorf(format string, args ...interface{}) error
	// ErrorCount returns the number of errors reported so far.
	ErrorCount() int
}

// Collector is the default Reporter. It formats, traces and counts
// diagnostics, and remembers the messages for later inspection.
type Collector struct {
	messages []string
}

var _ Reporter = (*Collector)(nil)

// NewCollector creates an empty diagnostics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Errorf is part of the Reporter interface.
func (c *Collector) Errorf(format string, args ...interface{}) error {
	msg := Sprintf(format, args...)
	c.messages = append(c.messages, msg)
	tracer().Errorf(msg)
	return fmt.Errorf("%s", msg)
}

// ErrorCount is part of the Reporter interface.
func (c *Collector) ErrorCount() int {
	return len(c.messages)
}

// Messages returns every diagnostic reported so far, in order.
func (c *Collector) Messages() []string {
	return c.messages
}

// Strict is a Reporter for command-line use. It formats and traces like a
// Collector, then terminates the process: a semantic error in C is fatal
// for the translation unit, and a batch compiler has nothing left to do.
// The core itself never terminates — it is handed a Collector in tests
// and by default in the CLIs, and a Strict reporter by the CLIs when they
// run with --strict.
type Strict struct {
	Collector
}

var _ Reporter = (*Strict)(nil)

// NewStrict creates a terminating reporter.
func NewStrict() *Strict {
	return &Strict{}
}

// Errorf is part of the Reporter interface. It does not return.
func (s *Strict) Errorf(format string, args ...interface{}) error {
	err := s.Collector.Errorf(format, args...)
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
	return err
}

// Sprintf formats a diagnostic message, translating the '%t' verb into the
// C surface syntax of ctype.Type arguments.
func Sprintf(format string, args ...interface{}) string {
	if strings.Contains(format, "%t") {
		format = strings.ReplaceAll(format, "%t", "%s")
		args = append([]interface{}(nil), args...)
		for i, a := range args {
			if t, ok := a.(ctype.Type); ok {
				args[i] = t.String()
			}
		}
	}
	return fmt.Sprintf(format, args...)
}
