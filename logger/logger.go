// Package logger is a small structured logger used for observability
// of decoder recovery and Stopped transitions. It is never on the hot
// path of a successful parse.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Field is one structured log attribute.
type Field struct {
	Key   string
	Value any
}

type logger struct {
	level  Level
	out    *log.Logger
	mutex  sync.RWMutex
}

var defaultLogger = newLogger()

func newLogger() *logger {
	l := &logger{level: INFO, out: log.New(os.Stdout, "", 0)}

	if debug := os.Getenv("DEBUG"); debug == "true" || debug == "1" {
		l.level = DEBUG
	}
	if lv := os.Getenv("LOG_LEVEL"); lv != "" {
		if parsed, err := ParseLevel(lv); err == nil {
			l.level = parsed
		}
	}

	return l
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level: %s", s)
	}
}

func (l *logger) shouldLog(level Level) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.level <= level
}

func (l *logger) log(level Level, msg string, fields []Field) {
	if !l.shouldLog(level) {
		return
	}

	_, file, line, _ := runtime.Caller(3)
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}

	entry := map[string]any{
		"timestamp": time.Now().Format("2006-01-02T15:04:05.000Z07:00"),
		"level":     levelNames[level],
		"message":   msg,
		"file":      fmt.Sprintf("%s:%d", file, line),
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, _ := json.Marshal(entry)
	l.out.Println(string(data))
}

// SetLevel changes the default logger's minimum severity.
func SetLevel(level Level) {
	defaultLogger.mutex.Lock()
	defer defaultLogger.mutex.Unlock()
	defaultLogger.level = level
}

func Debug(msg string, fields ...Field) { defaultLogger.log(DEBUG, msg, fields) }
func Info(msg string, fields ...Field)  { defaultLogger.log(INFO, msg, fields) }
func Warn(msg string, fields ...Field)  { defaultLogger.log(WARN, msg, fields) }
func Error(msg string, fields ...Field) { defaultLogger.log(ERROR, msg, fields) }

func String(key, val string) Field   { return Field{Key: key, Value: val} }
func Int(key string, val int) Field  { return Field{Key: key, Value: val} }
func Uint64(key string, val uint64) Field { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}
