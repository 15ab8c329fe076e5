package program

import (
	"errors"
	"strings"
)

// Exercise kind constants. The kind drives per-cell behavior in the grid's
// polymorphic target column.
const (
	KindStrength = "strength"
	KindCardio   = "cardio"
	KindMobility = "mobility"
)

// ValidKinds lists every accepted exercise kind.
var ValidKinds = []string{KindStrength, KindCardio, KindMobility}

// Domain errors.
var (
	ErrEmptyName   = errors.New("program: name cannot be empty")
	ErrInvalidKind = errors.New("program: exercise kind must be one of strength, cardio, mobility")
)

// Program is a multi-day training plan built by a trainer and assigned to a
// client.
type Program struct {
	ID     string
	Name   string
	Client string
	Notes  string
}

// Validate reports whether the program carries usable data.
func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Day is one ordered training day within a program.
type Day struct {
	ID        string
	ProgramID string
	Title     string
	Order     int
}

// Validate reports whether the day carries usable data.
func (d *Day) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyName
	}
	return nil
}

// Exercise is one ordered row within a training day. Tags is stored
// denormalized; Scheduled is an ISO date string (empty when unscheduled).
type Exercise struct {
	ID        string
	DayID     string
	Order     int
	Name      string
	Kind      string
	Category  string
	Sets      int
	Reps      string
	RestSec   int
	Target    string
	Done      bool
	Tags      []string
	Scheduled string
	VideoURL  string
	Notes     string
}

// Validate reports whether the exercise carries usable data. Name may be
// empty (trainers rough rows in before filling them), but a non-empty kind
// must be one of the declared values.
func (e *Exercise) Validate() error {
	if e.Kind != "" && !isValidKind(e.Kind) {
		return ErrInvalidKind
	}
	return nil
}

func isValidKind(k string) bool {
	for _, v := range ValidKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Record flattens the exercise into the field map the grid addresses through
// column accessors.
func (e *Exercise) Record() map[string]any {
	return map[string]any{
		"name":      e.Name,
		"kind":      e.Kind,
		"category":  e.Category,
		"sets":      e.Sets,
		"reps":      e.Reps,
		"rest":      e.RestSec,
		"target":    e.Target,
		"done":      e.Done,
		"tags":      tagsToAny(e.Tags),
		"scheduled": e.Scheduled,
		"video":     e.VideoURL,
		"notes":     e.Notes,
	}
}

// ApplyField writes a single grid-committed value back onto the exercise.
// Unknown fields are ignored so column additions cannot corrupt rows.
func (e *Exercise) ApplyField(field string, value any) {
	switch field {
	case "name":
		e.Name = asString(value)
	case "kind":
		e.Kind = asString(value)
	case "category":
		e.Category = asString(value)
	case "sets":
		e.Sets = asInt(value)
	case "reps":
		e.Reps = asString(value)
	case "rest":
		e.RestSec = asInt(value)
	case "target":
		e.Target = asString(value)
	case "done":
		if b, ok := value.(bool); ok {
			e.Done = b
		}
	case "tags":
		e.Tags = anyToTags(value)
	case "scheduled":
		e.Scheduled = asString(value)
	case "video":
		e.VideoURL = asString(value)
	case "notes":
		e.Notes = asString(value)
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return ""
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func tagsToAny(tags []string) []any {
	if len(tags) == 0 {
		return nil
	}
	out := make([]any, len(tags))
	for i, t := range tags {
		out[i] = t
	}
	return out
}

func anyToTags(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(list) == "" {
			return nil
		}
		parts := strings.Split(list, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return nil
	}
}
