package nutrition

import (
	"log"
	"sync"
)

// Summary is what the log view renders: totals and one Progress per label,
// in Labels order.
type Summary struct {
	Totals   Totals     `json:"totals"`
	Progress []Progress `json:"progress"`
	Count    int        `json:"count"`
}

// Tracker reports log totals against a set of targets.
type Tracker struct {
	mu      sync.Mutex
	targets Targets
	warned  map[string]bool
}

func NewTracker(targets Targets) *Tracker {
	return &Tracker{targets: targets, warned: make(map[string]bool)}
}

func (t *Tracker) Targets() Targets {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targets
}

func (t *Tracker) SetTargets(targets Targets) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = targets
	t.warned = make(map[string]bool)
}

// Report recomputes totals from entries and maps each onto its target.
func (t *Tracker) Report(entries []Entry) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	totals := Aggregate(entries)
	s := Summary{
		Totals:   totals,
		Progress: make([]Progress, 0, len(Labels)),
		Count:    len(entries),
	}
	for _, label := range Labels {
		target := t.targets.For(label)
		if !validTarget(target) && !t.warned[label] {
			t.warned[label] = true
			log.Printf("nutrition: %s target %v is not positive, reporting 0%%", label, target)
		}
		s.Progress = append(s.Progress, Compute(label, totals.For(label), target))
	}
	return s
}
