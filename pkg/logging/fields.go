package logging

import "time"

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Engine-domain field constructors

// RunID tags entries belonging to one aggregation run.
func RunID(id string) Field {
	return Field{Key: "run_id", Value: id}
}

// NodeID tags entries referring to one facility node.
func NodeID(id string) Field {
	return Field{Key: "node_id", Value: id}
}

// Pair tags entries referring to one source/destination pair.
func Pair(source, dest string) Field {
	return Field{Key: "pair", Value: source + "->" + dest}
}
