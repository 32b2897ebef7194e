package voxelize

import (
	"fmt"
	"log"
)

// Logger is the ambient logging seam the Driver reports stage progress
// through. A nil Logger is never passed to a stage; callers that don't
// care about logging get NopLogger via NewDriver's default.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NopLogger discards every call. It is the Driver's default Logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}

// StdLogger adapts the standard library's log.Logger to the Logger
// interface, prefixing each line with its level.
type StdLogger struct {
	L *log.Logger
}

func (s StdLogger) Debugf(format string, args ...any) { s.L.Output(2, "DEBUG "+fmt.Sprintf(format, args...)) }
func (s StdLogger) Infof(format string, args ...any)  { s.L.Output(2, "INFO  "+fmt.Sprintf(format, args...)) }
func (s StdLogger) Warnf(format string, args ...any)  { s.L.Output(2, "WARN  "+fmt.Sprintf(format, args...)) }
