package profile

import (
	"sort"

	"github.com/profilegrid/profilegrid/internal/platform"
)

// Record is one managed window at the moment of discovery. Records are
// never cached across invocations; the handle may go stale at any time.
type Record struct {
	ID         platform.WindowID
	Title      string
	StartTicks int64
}

// Builder composes enumeration, classification and metadata reads into one
// ordered snapshot of managed windows.
type Builder struct {
	backend    platform.Backend
	classifier *Classifier

	// startTicks is swappable for tests.
	startTicks func(pid int) int64
}

// NewBuilder creates a set builder over the given backend and classifier.
func NewBuilder(backend platform.Backend, classifier *Classifier) *Builder {
	return &Builder{
		backend:    backend,
		classifier: classifier,
		startTicks: ProcessStartTicks,
	}
}

// BuildSet enumerates all windows, filters through the classifier, reads
// metadata for survivors and sorts ascending by process creation time. The
// ordering is deterministic for an unchanged process set even though window
// IDs and on-screen order are not stable; equal timestamps tie-break on
// window ID. An empty result is a normal outcome, not an error.
func (b *Builder) BuildSet() []Record {
	var records []Record
	for _, id := range b.backend.ListWindows() {
		facts := Facts{
			Visible: b.backend.IsViewable(id),
			Title:   b.backend.WindowTitle(id),
			Class:   b.backend.WindowClass(id),
		}
		if !b.classifier.Matches(facts) {
			continue
		}

		ticks := int64(0)
		if pid, ok := b.backend.WindowPID(id); ok {
			ticks = b.startTicks(pid)
		}

		records = append(records, Record{
			ID:         id,
			Title:      facts.Title,
			StartTicks: ticks,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StartTicks != records[j].StartTicks {
			return records[i].StartTicks < records[j].StartTicks
		}
		return records[i].ID < records[j].ID
	})

	return records
}
