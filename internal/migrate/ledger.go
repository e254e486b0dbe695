package migrate

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Status is the terminal per-item result recorded in the ledger.
type Status string

const (
	StatusAdded         Status = "added"
	StatusNotFound      Status = "not_found"
	StatusFailedToAdd   Status = "failed_to_add"
	StatusQuotaExceeded Status = "quota_exceeded"
)

// Outcome is the terminal record for one migrated item.
//
// Exactly one Outcome exists per item per run; an index recorded as processed
// in a prior run is never reprocessed.
type Outcome struct {
	Index   int    `json:"index"`
	Query   string `json:"query"`
	Status  Status `json:"status"`
	VideoID string `json:"video_id,omitempty"`
}

// ledgerFile is the on-disk shape: human-inspectable JSON, safe to delete to
// force a full re-run.
type ledgerFile struct {
	LastUpdated      string             `json:"last_updated"`
	ProcessedIndices []int              `json:"processed_indices"`
	Songs            map[string]Outcome `json:"songs"`
}

// Ledger is the durable mapping from item index to outcome that makes a run
// resumable.
//
// The processed-index set and the outcome map are kept equal by construction:
// the set is always derived from the map's keys. Save replaces the whole file
// via write-to-temp-then-rename so a crash never leaves a partial write.
type Ledger struct {
	path     string
	logger   *log.Logger
	outcomes map[int]Outcome
}

// LoadLedger reads the ledger at path.
//
// A missing or unparseable file yields an empty ledger: corruption is logged
// as a warning and treated as "start fresh", never as a fatal error.
func LoadLedger(path string, logger *log.Logger) *Ledger {
	ledger := &Ledger{
		path:     path,
		logger:   logger,
		outcomes: make(map[int]Outcome),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not read progress ledger, starting fresh", "path", path, "error", err)
		}
		return ledger
	}

	var file ledgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Warn("progress ledger is corrupt, starting fresh", "path", path, "error", err)
		return ledger
	}

	for key, outcome := range file.Songs {
		index, err := strconv.Atoi(key)
		if err != nil {
			logger.Warn("ignoring ledger entry with non-numeric index", "key", key)
			continue
		}
		if outcome.Index == 0 {
			outcome.Index = index
		}
		ledger.outcomes[index] = outcome
	}

	logger.Info("loaded progress ledger", "path", path, "processed", len(ledger.outcomes))
	return ledger
}

// Processed reports whether the index already has a recorded outcome.
func (l *Ledger) Processed(index int) bool {
	_, ok := l.outcomes[index]
	return ok
}

// Record stores the outcome for its index, marking the index processed.
func (l *Ledger) Record(outcome Outcome) {
	l.outcomes[outcome.Index] = outcome
}

// Outcome returns the recorded outcome for an index, if any.
func (l *Ledger) Outcome(index int) (Outcome, bool) {
	outcome, ok := l.outcomes[index]
	return outcome, ok
}

// Len returns the number of processed indices.
func (l *Ledger) Len() int {
	return len(l.outcomes)
}

// Counts returns the number of recorded outcomes per status.
func (l *Ledger) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, outcome := range l.outcomes {
		counts[outcome.Status]++
	}
	return counts
}

// Save serializes the full current state, atomically replacing any prior file.
//
// The temp file is written in the same directory as the target so the rename
// never crosses filesystems.
func (l *Ledger) Save() error {
	indices := make([]int, 0, len(l.outcomes))
	songs := make(map[string]Outcome, len(l.outcomes))
	for index, outcome := range l.outcomes {
		indices = append(indices, index)
		songs[strconv.Itoa(index)] = outcome
	}
	sort.Ints(indices)

	file := ledgerFile{
		LastUpdated:      time.Now().Format(time.RFC3339),
		ProcessedIndices: indices,
		Songs:            songs,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger temp file: %w", err)
	}

	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	return nil
}

// Path returns the ledger's file path.
func (l *Ledger) Path() string {
	return l.path
}

// LastUpdated reads the timestamp recorded in the ledger file, if present.
func LastUpdated(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var file ledgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("failed to parse ledger: %w", err)
	}

	return file.LastUpdated, nil
}
