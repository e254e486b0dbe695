package migrate

import "fmt"

// Phase identifies a stage of a migration run for progress reporting.
type Phase int

const (
	PhasePrepare Phase = iota
	PhaseProcess
	PhaseSaveLedger
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePrepare:
		return "prepare"
	case PhaseProcess:
		return "process"
	case PhaseSaveLedger:
		return "save_ledger"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressUpdate is a point-in-time snapshot emitted while a run executes.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

func startUpdate(pending, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhasePrepare,
		Total:   total,
		Message: fmt.Sprintf("%d of %d items pending", pending, total),
	}
}

func itemUpdate(outcome Outcome, done, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseProcess,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("%s: %s", outcome.Status, outcome.Query),
	}
}

func saveUpdate(recorded int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseSaveLedger,
		Message: fmt.Sprintf("saving progress for %d items", recorded),
	}
}

func doneUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseDone,
		Step:    result.Total,
		Total:   result.Total,
		Message: result.Summary(),
	}
}

// sendProgress delivers an update without blocking. Updates are advisory; a
// slow or absent consumer never stalls the run.
func sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
