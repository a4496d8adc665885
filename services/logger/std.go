package logsvc

import (
	"io"
	"log"
	"os"

	"github.com/trezcool/classdrop/core"
)

// StdLogger prints through a standard library logger only.
type StdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*StdLogger)(nil)

// NewStdLogger returns a StdLogger writing to stdout, each line starting with prefix.
func NewStdLogger(prefix string) StdLogger {
	return StdLogger{std: log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)}
}

// NewDiscardLogger returns a StdLogger printing nothing (tests).
func NewDiscardLogger() StdLogger {
	return StdLogger{std: log.New(io.Discard, "", 0)}
}

func (l StdLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG: "+msg, args) }
func (l StdLogger) Info(msg string, args ...interface{})  { l.print("INFO: "+msg, args) }
func (l StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN: "+msg, args) }
func (l StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR: "+msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL: "+msg, args)
	l.std.Fatal(msg)
}
