package migrate

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/likeshift/internal/shared"
)

func TestLoadLedger(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("missing file yields empty ledger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")
		ledger := LoadLedger(path, logger)

		if ledger.Len() != 0 {
			t.Errorf("expected empty ledger, got %d entries", ledger.Len())
		}
		if ledger.Processed(1) {
			t.Error("expected index 1 to be unprocessed")
		}
	})

	t.Run("corrupt file yields empty ledger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}

		ledger := LoadLedger(path, logger)
		if ledger.Len() != 0 {
			t.Errorf("expected empty ledger, got %d entries", ledger.Len())
		}
	})

	t.Run("reads recorded outcomes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")
		content := `{
			"last_updated": "2026-08-20T10:00:00Z",
			"processed_indices": [1, 3],
			"songs": {
				"1": {"index": 1, "query": "song one", "status": "added", "video_id": "vid1"},
				"3": {"index": 3, "query": "song three", "status": "not_found"}
			}
		}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		ledger := LoadLedger(path, logger)

		if ledger.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", ledger.Len())
		}
		if !ledger.Processed(1) || !ledger.Processed(3) {
			t.Error("expected indices 1 and 3 to be processed")
		}
		if ledger.Processed(2) {
			t.Error("expected index 2 to be unprocessed")
		}

		outcome, ok := ledger.Outcome(1)
		if !ok {
			t.Fatal("expected outcome for index 1")
		}
		if outcome.Status != StatusAdded {
			t.Errorf("expected status %q, got %q", StatusAdded, outcome.Status)
		}
		if outcome.VideoID != "vid1" {
			t.Errorf("expected video id vid1, got %q", outcome.VideoID)
		}
	})
}

func TestLedgerSave(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("round trips through disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")

		ledger := LoadLedger(path, logger)
		ledger.Record(Outcome{Index: 2, Query: "second song", Status: StatusAdded, VideoID: "abc"})
		ledger.Record(Outcome{Index: 5, Query: "fifth song", Status: StatusFailedToAdd, VideoID: "def"})

		if err := ledger.Save(); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		reloaded := LoadLedger(path, logger)
		if reloaded.Len() != 2 {
			t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
		}

		outcome, ok := reloaded.Outcome(5)
		if !ok {
			t.Fatal("expected outcome for index 5")
		}
		if outcome.Status != StatusFailedToAdd || outcome.VideoID != "def" {
			t.Errorf("unexpected outcome: %+v", outcome)
		}
	})

	t.Run("writes sorted indices and leaves no temp file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "progress.json")

		ledger := LoadLedger(path, logger)
		ledger.Record(Outcome{Index: 9, Query: "nine", Status: StatusAdded})
		ledger.Record(Outcome{Index: 1, Query: "one", Status: StatusAdded})
		ledger.Record(Outcome{Index: 4, Query: "four", Status: StatusNotFound})

		if err := ledger.Save(); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		var file struct {
			LastUpdated      string             `json:"last_updated"`
			ProcessedIndices []int              `json:"processed_indices"`
			Songs            map[string]Outcome `json:"songs"`
		}
		if err := json.Unmarshal(data, &file); err != nil {
			t.Fatalf("saved file is not valid JSON: %v", err)
		}

		want := []int{1, 4, 9}
		if len(file.ProcessedIndices) != len(want) {
			t.Fatalf("expected %v, got %v", want, file.ProcessedIndices)
		}
		for i, index := range want {
			if file.ProcessedIndices[i] != index {
				t.Errorf("expected processed_indices %v, got %v", want, file.ProcessedIndices)
				break
			}
		}
		if len(file.Songs) != 3 {
			t.Errorf("expected 3 songs, got %d", len(file.Songs))
		}
		if file.LastUpdated == "" {
			t.Error("expected last_updated to be set")
		}

		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Error("expected temp file to be gone after save")
		}
	})

	t.Run("overwrites prior file atomically", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")

		first := LoadLedger(path, logger)
		first.Record(Outcome{Index: 1, Query: "one", Status: StatusAdded})
		if err := first.Save(); err != nil {
			t.Fatal(err)
		}

		second := LoadLedger(path, logger)
		second.Record(Outcome{Index: 2, Query: "two", Status: StatusAdded})
		if err := second.Save(); err != nil {
			t.Fatal(err)
		}

		third := LoadLedger(path, logger)
		if third.Len() != 2 {
			t.Errorf("expected merged state of 2 entries, got %d", third.Len())
		}
	})
}

func TestLedgerCounts(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	ledger := LoadLedger(filepath.Join(t.TempDir(), "progress.json"), logger)

	ledger.Record(Outcome{Index: 1, Status: StatusAdded})
	ledger.Record(Outcome{Index: 2, Status: StatusAdded})
	ledger.Record(Outcome{Index: 3, Status: StatusNotFound})
	ledger.Record(Outcome{Index: 4, Status: StatusQuotaExceeded})

	counts := ledger.Counts()
	if counts[StatusAdded] != 2 {
		t.Errorf("expected 2 added, got %d", counts[StatusAdded])
	}
	if counts[StatusNotFound] != 1 {
		t.Errorf("expected 1 not_found, got %d", counts[StatusNotFound])
	}
	if counts[StatusQuotaExceeded] != 1 {
		t.Errorf("expected 1 quota_exceeded, got %d", counts[StatusQuotaExceeded])
	}
	if counts[StatusFailedToAdd] != 0 {
		t.Errorf("expected 0 failed_to_add, got %d", counts[StatusFailedToAdd])
	}
}

func TestLastUpdated(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	path := filepath.Join(t.TempDir(), "progress.json")

	if _, err := LastUpdated(path); err == nil {
		t.Error("expected error for missing file")
	}

	ledger := LoadLedger(path, logger)
	ledger.Record(Outcome{Index: 1, Status: StatusAdded})
	if err := ledger.Save(); err != nil {
		t.Fatal(err)
	}

	stamp, err := LastUpdated(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamp == "" {
		t.Error("expected a timestamp")
	}
}
