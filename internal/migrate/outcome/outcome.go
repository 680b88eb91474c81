// Package outcome names what happened to one source record.
package outcome

type Outcome int

const (
	Migrated Outcome = iota
	// Skipped records already have a target record.
	Skipped
	// Failed records were rejected by the backend on creation.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Migrated:
		return "migrated"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}
