// Package logs provides the logr.Logger the tree driver uses to report
// structural events (split, merge, root growth/shrink) at a debug
// verbosity, so rebalancing bugs can be diagnosed without a debugger.
//
// Sink is a direct implementation of the github.com/go-logr/logr LogSink
// contract backed by the standard log package. Std and Discard give
// callers who do not want to supply their own logr.Logger a ready
// default; Std is backed by github.com/go-logr/stdr.
package logs

import (
	"bytes"
	"fmt"
	stdlog "log"
	"os"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Sink implements logr.LogSink, formatting each record as a dotted name
// prefix followed by sorted key=value pairs.
type Sink struct {
	level  int
	names  []string
	values []interface{}
	out    *stdlog.Logger
}

var _ logr.LogSink = (*Sink)(nil)

// New builds a logr.Logger backed by a fresh Sink writing to w.
func New(w *os.File) logr.Logger {
	return logr.New(&Sink{out: stdlog.New(w, "", stdlog.LstdFlags)})
}

// Std returns the default logger: github.com/go-logr/stdr wrapping the
// standard log package, written to os.Stderr. Use this when a caller has
// no opinion about where tree diagnostics go.
func Std() logr.Logger {
	return stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags|stdlog.Lshortfile))
}

// Discard returns a logger that drops every record, for callers who want
// the tree driver's Info/Error calls to cost as little as possible.
func Discard() logr.Logger {
	return logr.Discard()
}

// Init implements logr.LogSink.
func (s *Sink) Init(info logr.RuntimeInfo) {}

// Enabled implements logr.LogSink. Level zero, the default, matters most;
// increasing levels matter less.
func (s *Sink) Enabled(level int) bool {
	return level <= s.level
}

func (s *Sink) clone() *Sink {
	c := &Sink{
		level:  s.level,
		names:  append([]string(nil), s.names...),
		values: append([]interface{}(nil), s.values...),
		out:    s.out,
	}
	return c
}

// Info implements logr.LogSink.
func (s *Sink) Info(level int, msg string, keysAndValues ...interface{}) {
	prefix := strings.Join(s.names, ".")
	s.out.Print(fmt.Sprintln(prefix, flatKv("level", level), flatKv("msg", msg), flatKv(s.values...), flatKv(keysAndValues...)))
}

// Error implements logr.LogSink.
func (s *Sink) Error(err error, msg string, keysAndValues ...interface{}) {
	prefix := strings.Join(s.names, ".")
	s.out.Print(fmt.Sprintln(prefix, flatKv("error", err.Error()), flatKv("msg", msg), flatKv(s.values...), flatKv(keysAndValues...)))
}

// WithValues implements logr.LogSink.
func (s *Sink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	c := s.clone()
	c.values = append(c.values, keysAndValues...)
	return c
}

// WithName implements logr.LogSink.
func (s *Sink) WithName(name string) logr.LogSink {
	c := s.clone()
	c.names = append(c.names, name)
	return c
}

// flatKv renders keysAndValues as sorted "k=v" pairs, tolerating an odd
// trailing key and non-string values via fmt.Sprint.
func flatKv(keysAndValues ...interface{}) string {
	var keys, values []string

	for i := 0; i < len(keysAndValues); i += 2 {
		k := fmt.Sprint(keysAndValues[i])
		v := ""
		if i+1 < len(keysAndValues) {
			v = fmt.Sprint(keysAndValues[i+1])
		}
		keys = append(keys, k)
		values = append(values, v)
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })

	var buf bytes.Buffer
	for n, idx := range order {
		if n > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%s=%s", keys[idx], values[idx])
	}

	return buf.String()
}
