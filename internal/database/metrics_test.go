package database

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMetric(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMetric("commands_processed")
	if err != nil || v != 0 {
		t.Fatalf("GetMetric on empty store = %v, %v", v, err)
	}

	if err := s.SaveMetric("commands_processed", 3); err != nil {
		t.Fatalf("SaveMetric returned error: %v", err)
	}
	if err := s.SaveMetric("commands_processed", 7); err != nil {
		t.Fatalf("SaveMetric returned error: %v", err)
	}
	if v, err := s.GetMetric("commands_processed"); err != nil || v != 7 {
		t.Fatalf("GetMetric = %v, %v, want 7", v, err)
	}
}

func TestMetricsWithLabels(t *testing.T) {
	s := openTestStore(t)

	saves := []struct {
		key, value string
		n          float64
	}{
		{"race_results", "ok", 4},
		{"race_results", "not_found", 1},
		{"next_event", "ok", 2},
		{"race_results", "ok", 5},
	}
	for _, sv := range saves {
		if err := s.SaveMetricWithLabels("command_outcomes", sv.key, sv.value, sv.n); err != nil {
			t.Fatalf("SaveMetricWithLabels returned error: %v", err)
		}
	}
	if err := s.SaveMetric("command_outcomes", 99); err != nil {
		t.Fatalf("SaveMetric returned error: %v", err)
	}

	got, err := s.GetMetricsWithLabels("command_outcomes")
	if err != nil {
		t.Fatalf("GetMetricsWithLabels returned error: %v", err)
	}
	if len(got) != 2 || got["race_results"]["ok"] != 5 || got["race_results"]["not_found"] != 1 || got["next_event"]["ok"] != 2 {
		t.Fatalf("GetMetricsWithLabels = %v", got)
	}

	if err := s.SaveMetricWithLabels("command_outcomes", "", "", 1); err == nil {
		t.Fatal("empty labels accepted")
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.SaveMetric("messages_handled", 12); err != nil {
		t.Fatalf("SaveMetric returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer s.Close()
	if v, err := s.GetMetric("messages_handled"); err != nil || v != 12 {
		t.Fatalf("GetMetric after reopen = %v, %v", v, err)
	}
}
