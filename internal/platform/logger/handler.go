package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Fixed keys and constants of every log entry.
const (
	KeyTimestamp    = "timestamp"
	KeyLevel        = "log_level"
	KeyMessage      = "message"
	KeyLoggerName   = "logger.name"
	KeyECSVersion   = "ecs_version"
	KeyDataset      = "event_dataset"
	KeyPID          = "process.pid"
	KeyLogLogger    = "log.logger"
	KeyOriginFile   = "log.origin.file.name"
	KeyOriginLine   = "log.origin.file.line"
	KeyOriginFunc   = "log.origin.function"
	KeyError        = "error"
	ECSVersion      = "1.12.0"
	Dataset         = "go-api-template"
	fieldsAttrKey   = "@fields"
	timestampLayout = time.RFC3339Nano
)

// Fields is a structured payload whose keys are written at the top level of a
// log entry. Pass it with WithFields.
type Fields map[string]any

// WithFields wraps a payload so ECSHandler merges its keys into the entry
// instead of nesting them under an attribute name.
func WithFields(f Fields) slog.Attr {
	return slog.Any(fieldsAttrKey, f)
}

// ErrorDetail is the shape of the "error" object of a log entry.
type ErrorDetail struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StackTrace string `json:"stack_trace,omitempty"`
}

// Err records err together with the stack of the calling goroutine.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Any(KeyError, nil)
	}
	return slog.Any(KeyError, ErrorDetail{
		Type:       fmt.Sprintf("%T", err),
		Message:    err.Error(),
		StackTrace: string(debug.Stack()),
	})
}

// ECSHandler is a slog.Handler that renders every record as a single JSON line
// with a fixed set of ECS-style metadata keys. The same handler serves every
// sink, so the entry shape does not depend on where it is written.
type ECSHandler struct {
	out   io.Writer
	level slog.Leveler
	name  string
	pid   int

	// state accumulated through WithAttrs/WithGroup
	groups  []string
	payload map[string]any
	errInfo *ErrorDetail
	extra   map[string]any
}

// NewECSHandler creates a handler named name writing to out. A nil level
// means slog.LevelInfo.
func NewECSHandler(out io.Writer, name string, level slog.Leveler) *ECSHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ECSHandler{
		out:     out,
		level:   level,
		name:    name,
		pid:     os.Getpid(),
		payload: map[string]any{},
		extra:   map[string]any{},
	}
}

// Enabled implements the slog.Handler interface.
func (h *ECSHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// WithAttrs implements the slog.Handler interface.
func (h *ECSHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		h2.addAttr(a)
	}
	return h2
}

// WithGroup implements the slog.Handler interface.
func (h *ECSHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups[:len(h2.groups):len(h2.groups)], name)
	return h2
}

// Handle implements the slog.Handler interface.
func (h *ECSHandler) Handle(_ context.Context, r slog.Record) error {
	state := h.clone()
	r.Attrs(func(a slog.Attr) bool {
		state.addAttr(a)
		return true
	})

	entry := map[string]any{
		KeyTimestamp:  r.Time.UTC().Format(timestampLayout),
		KeyLevel:      strings.ToLower(r.Level.String()),
		KeyMessage:    r.Message,
		KeyLoggerName: h.name,
		KeyLogLogger:  h.name,
		KeyECSVersion: ECSVersion,
		KeyDataset:    Dataset,
		KeyPID:        h.pid,
	}
	if r.Time.IsZero() {
		entry[KeyTimestamp] = time.Now().UTC().Format(timestampLayout)
	}
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		entry[KeyOriginFile] = filepath.Base(frame.File)
		entry[KeyOriginLine] = frame.Line
		entry[KeyOriginFunc] = shortFuncName(frame.Function)
	}

	for k, v := range state.payload {
		entry[k] = v
	}
	if state.errInfo != nil {
		entry[KeyError] = *state.errInfo
	}
	for k, v := range state.extra {
		entry[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	_, err := h.out.Write(buf.Bytes())
	return err
}

// addAttr folds a into the handler state. Payloads and errors are recognized
// only outside of groups.
func (h *ECSHandler) addAttr(a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if len(h.groups) == 0 {
		switch a.Key {
		case fieldsAttrKey:
			if f, ok := a.Value.Any().(Fields); ok {
				for k, v := range f {
					h.payload[k] = v
				}
				return
			}
		case KeyError:
			switch v := a.Value.Any().(type) {
			case ErrorDetail:
				h.errInfo = &v
				return
			case error:
				h.errInfo = &ErrorDetail{Type: fmt.Sprintf("%T", v), Message: v.Error()}
				return
			}
		}
	}

	target := h.extra
	for _, g := range h.groups {
		next, ok := target[g].(map[string]any)
		if !ok {
			next = map[string]any{}
			target[g] = next
		}
		target = next
	}

	if a.Value.Kind() == slog.KindGroup && a.Key == "" {
		for _, ga := range a.Value.Group() {
			target[ga.Key] = attrValue(ga.Value)
		}
		return
	}
	target[a.Key] = attrValue(a.Value)
}

// clone returns a copy whose maps can be modified without affecting h.
func (h *ECSHandler) clone() *ECSHandler {
	h2 := *h
	h2.payload = cloneMap(h.payload)
	h2.extra = cloneMap(h.extra)
	if h.errInfo != nil {
		e := *h.errInfo
		h2.errInfo = &e
	}
	return &h2
}

// named returns a copy of h that reports name as its logger name.
func (h *ECSHandler) named(name string) *ECSHandler {
	h2 := h.clone()
	h2.name = name
	return h2
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		m := make(map[string]any, len(v.Group()))
		for _, a := range v.Group() {
			m[a.Key] = attrValue(a.Value)
		}
		return m
	case slog.KindTime:
		return v.Time().UTC().Format(timestampLayout)
	case slog.KindDuration:
		return v.Duration().Seconds()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			if _, isMarshaler := err.(json.Marshaler); !isMarshaler {
				return err.Error()
			}
		}
		return v.Any()
	default:
		return v.Any()
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// shortFuncName strips the import path from a fully qualified function name.
func shortFuncName(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
