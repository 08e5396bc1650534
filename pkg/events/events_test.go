package events

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/testgen/tgv/pkg/model"
)

func TestJSONEmitter_WritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	em := NewJSONEmitter(&buf)
	em.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	all := true
	payload := []model.SelectedNode{{ID: "t1", All: &all, Children: []model.SelectedNode{{ID: "c1"}}}}
	if err := em.Emit(TreeSelectionChanged, payload); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := em.Emit(ScheduleChanged, "0 9 * * MON"); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["name"] != TreeSelectionChanged {
		t.Errorf("name = %v", lines[0]["name"])
	}
	if lines[0]["ts"] != "2024-01-02T03:04:05Z" {
		t.Errorf("ts = %v", lines[0]["ts"])
	}
	if id, _ := lines[0]["id"].(string); len(id) != 36 {
		t.Errorf("id %q is not a uuid", id)
	}
	if lines[0]["id"] == lines[1]["id"] {
		t.Error("event ids are not unique")
	}
	sel, ok := lines[0]["payload"].([]any)
	if !ok || len(sel) != 1 {
		t.Fatalf("payload = %#v", lines[0]["payload"])
	}
	if entry := sel[0].(map[string]any); entry["id"] != "t1" || entry["all"] != true {
		t.Errorf("payload entry = %#v", entry)
	}
	if lines[1]["payload"] != "0 9 * * MON" {
		t.Errorf("payload = %v", lines[1]["payload"])
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestJSONEmitter_WriteError(t *testing.T) {
	err := NewJSONEmitter(brokenWriter{}).Emit(ExportClicked, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Emit(TagsChanged, []string{"a"})
	_ = r.Emit(ExportClicked, 1)
	_ = r.Emit(TagsChanged, []string{"b"})

	if got := len(r.Events()); got != 3 {
		t.Fatalf("recorded %d events, want 3", got)
	}
	last, ok := r.Last(TagsChanged)
	if !ok {
		t.Fatal("expected a TagsChanged event")
	}
	if tags := last.Payload.([]string); tags[0] != "b" {
		t.Errorf("Last returned %v", tags)
	}
	if _, ok := r.Last(RunProfilingClicked); ok {
		t.Error("unexpected RunProfilingClicked")
	}
}

func TestSafe_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := Safe{Emitter: NewJSONEmitter(brokenWriter{}), Logger: zap.New(core)}
	if err := s.Emit(ExportClicked, nil); err != nil {
		t.Fatalf("Safe.Emit returned %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["event"]; got != ExportClicked {
		t.Errorf("logged event = %v", got)
	}
	if err := (Safe{}).Emit(ExportClicked, nil); err != nil {
		t.Errorf("nil emitter: %v", err)
	}
}
