package logger

import (
	"reflect"
	"testing"
)

type entry struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	entries []entry
}

func (r *recorder) record(level, message string, keyvals []any) {
	r.entries = append(r.entries, entry{level: level, message: message, keyvals: keyvals})
}

func (r *recorder) Log(m string, kv ...any)   { r.record("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.record("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.record("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.record("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.record("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.record("fatal", m, kv) }

func TestDispatch(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	t.Cleanup(func() { Init() })

	Info("parsed table", "people", 3)
	Log("plain", "k", "v")
	Warn("dangling", "id", "p1")

	want := []entry{
		{level: "info", message: "parsed table", keyvals: []any{"people", 3}},
		{level: "log", message: "plain", keyvals: []any{"k", "v"}},
		{level: "warn", message: "dangling", keyvals: []any{"id", "p1"}},
	}
	for _, r := range []*recorder{a, b} {
		if !reflect.DeepEqual(r.entries, want) {
			t.Errorf("entries = %#v, want %#v", r.entries, want)
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	mu.Lock()
	singleton = nil
	mu.Unlock()

	// Must not panic.
	Info("ignored")
	Error("ignored", "err", "x")
}
