package log

import "time"

// Logger receives leveled messages with key/value context. The parser warns
// on skipped tokens, the transfer session traces its handshake and chunks,
// and the watcher reports reloads.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one key/value pair attached to a message.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Float64 is used for percentages.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err attaches err under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Any attaches a value with no dedicated helper; the backend encodes it
// by its dynamic type.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }
