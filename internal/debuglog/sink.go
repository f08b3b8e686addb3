package debuglog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Sink receives human-readable lines for the user. Emit must not block or fail the caller.
type Sink interface {
	Emit(line string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(line string)

func (f SinkFunc) Emit(line string) {
	if f != nil {
		f(line)
	}
}

// Discard drops every line.
var Discard Sink = SinkFunc(func(string) {})

type multiSink []Sink

func (m multiSink) Emit(line string) {
	for _, s := range m {
		if s != nil {
			s.Emit(line)
		}
	}
}

// Multi fans a line out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

// Emitf formats a line, writes it to the leveled log and hands it to the sink.
func Emitf(sink Sink, level Level, format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	Log(level.String(), level, UseGlobal, "%s", line)
	if sink != nil {
		sink.Emit(line)
	}
}

// FileSink appends prefixed lines to a log file and forwards them to subscribers.
// Subscribers are called synchronously and must return quickly.
type FileSink struct {
	path   string
	prefix string

	mu          sync.Mutex
	subscribers []func(line string)
}

// NewFileSink removes any previous file at path so every run starts with a fresh log.
func NewFileSink(path, prefix string) *FileSink {
	_ = os.Remove(path)
	return &FileSink{path: path, prefix: prefix}
}

// Subscribe registers fn for every subsequent line.
func (s *FileSink) Subscribe(fn func(line string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *FileSink) Emit(line string) {
	text := line
	if s.prefix != "" {
		text = s.prefix + " " + line
	}

	s.mu.Lock()
	subs := append([]func(string){}, s.subscribers...)
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		_, _ = fmt.Fprintf(f, "%s %s\n", time.Now().Format("15:04:05"), text)
		CloseWithLog("FileSink: close "+s.path, f)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(text)
	}
}
