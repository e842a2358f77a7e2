package acsf

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// StatusCode is the numeric status reported for a WIP task.
type StatusCode int

// WIP task status codes as reported by the Site Factory API.
const (
	StatusNotStarted  StatusCode = 1
	StatusInProgress  StatusCode = 2
	StatusError       StatusCode = 4
	StatusWaiting     StatusCode = 8
	StatusCompleted   StatusCode = 16
	StatusKilled      StatusCode = 32
	StatusWarning     StatusCode = 64
	StatusSystemError StatusCode = 128
)

// DefaultStatusKey is the snapshot field holding the status code.
const DefaultStatusKey = "status"

var statusNames = map[StatusCode]string{
	StatusNotStarted:  "Not started",
	StatusInProgress:  "In progress",
	StatusError:       "Error",
	StatusWaiting:     "Waiting",
	StatusCompleted:   "Completed",
	StatusKilled:      "Cancelled",
	StatusWarning:     "Completed with warnings",
	StatusSystemError: "System error",
}

// String returns a human label for the code.
func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "Unknown (" + strconv.Itoa(int(s)) + ")"
}

// IsTerminal reports whether the task will not progress any further.
// Unrecognized codes are never terminal.
func (s StatusCode) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusWarning, StatusError, StatusSystemError, StatusKilled:
		return true
	case StatusNotStarted, StatusInProgress, StatusWaiting:
		return false
	default:
		return false
	}
}

// IsError reports whether the task ended in an error state.
func (s StatusCode) IsError() bool {
	return s == StatusError || s == StatusSystemError
}

// StatusSnapshot is the decoded body of one status fetch.
type StatusSnapshot map[string]any

// Value looks up a key in the snapshot. Dotted keys walk nested objects, so
// "wip_task.status" reaches into the envelope of a WIP task status body.
func (s StatusSnapshot) Value(key string) (any, bool) {
	if v, ok := s[key]; ok {
		return v, true
	}

	var current any = map[string]any(s)

	for _, part := range strings.Split(key, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Has reports whether the key is present.
func (s StatusSnapshot) Has(key string) bool {
	_, ok := s.Value(key)

	return ok
}

// Code reads the status code at key. The second return is false when the key
// is missing or does not hold an integral number.
func (s StatusSnapshot) Code(key string) (StatusCode, bool) {
	v, ok := s.Value(key)
	if !ok {
		return 0, false
	}

	n, ok := toInt(v)

	return StatusCode(n), ok
}

// String reads a string field, returning "" when absent.
func (s StatusSnapshot) String(key string) string {
	v, ok := s.Value(key)
	if !ok || v == nil {
		return ""
	}

	if str, ok := v.(string); ok {
		return str
	}

	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return string(b)
}

// TaskID extracts the "task_id" of a task-producing response.
func TaskID(resp map[string]any) (int, error) {
	v, ok := resp["task_id"]
	if !ok {
		return 0, ErrNoTaskID
	}

	id, ok := toInt(v)
	if !ok || id <= 0 {
		return 0, ErrNoTaskID
	}

	return id, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}

		return int(n), true
	case json.Number:
		i, err := n.Int64()

		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))

		return i, err == nil
	default:
		return 0, false
	}
}
