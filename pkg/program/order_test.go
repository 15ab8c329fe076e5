package program

import (
	"fmt"
	"testing"
)

func makeExercises(n int) []Exercise {
	list := make([]Exercise, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, Exercise{
			ID:    fmt.Sprintf("ex-%02d", i),
			Name:  fmt.Sprintf("Exercise %d", i),
			Order: i,
		})
	}
	return list
}

func assertDense(t *testing.T, list []Exercise) {
	t.Helper()
	seen := make(map[int]bool, len(list))
	for i, e := range list {
		if e.Order != i {
			t.Fatalf("order key at slice index %d is %d, want %d", i, e.Order, i)
		}
		if seen[e.Order] {
			t.Fatalf("duplicate order key %d", e.Order)
		}
		seen[e.Order] = true
	}
}

func TestNextExerciseOrder(t *testing.T) {
	if got := NextExerciseOrder(nil); got != 0 {
		t.Fatalf("empty day should append at 0, got %d", got)
	}
	list := makeExercises(3)
	if got := NextExerciseOrder(list); got != 3 {
		t.Fatalf("expected append order 3, got %d", got)
	}
	// gaps do not matter: append still lands past the max
	list[2].Order = 7
	if got := NextExerciseOrder(list); got != 8 {
		t.Fatalf("expected append order 8 past the gap, got %d", got)
	}
}

func TestRenumberAfterDelete(t *testing.T) {
	list := makeExercises(5)
	list = append(list[:1], list[2:]...) // delete index 1
	RenumberExercises(list)
	assertDense(t, list)
	if list[1].ID != "ex-02" {
		t.Fatalf("expected ex-02 to shift into slot 1, got %s", list[1].ID)
	}
}

func TestMoveExercise(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		wantTop  string
	}{
		{name: "down", from: 0, to: 2, wantTop: "ex-01"},
		{name: "up", from: 3, to: 0, wantTop: "ex-03"},
		{name: "clamped high", from: 1, to: 99, wantTop: "ex-00"},
		{name: "clamped low", from: 2, to: -5, wantTop: "ex-02"},
		{name: "noop", from: 2, to: 2, wantTop: "ex-00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := makeExercises(4)
			MoveExercise(list, tt.from, tt.to)
			assertDense(t, list)
			if list[0].ID != tt.wantTop {
				t.Fatalf("expected %s at top, got %s", tt.wantTop, list[0].ID)
			}
		})
	}
}

func TestOrderStaysDenseUnderMixedOps(t *testing.T) {
	list := makeExercises(6)
	MoveExercise(list, 5, 0)
	list = append(list[:3], list[4:]...)
	RenumberExercises(list)
	list = append(list, Exercise{ID: "ex-new", Order: NextExerciseOrder(list)})
	MoveExercise(list, 0, len(list)-1)
	assertDense(t, list)
}

func TestDayOrderHelpers(t *testing.T) {
	days := []Day{
		{ID: "d2", Title: "Pull", Order: 2},
		{ID: "d0", Title: "Push", Order: 0},
		{ID: "d1", Title: "Legs", Order: 1},
	}
	SortDays(days)
	if days[0].ID != "d0" || days[2].ID != "d2" {
		t.Fatalf("unexpected day order after sort: %v", days)
	}
	if got := NextDayOrder(days); got != 3 {
		t.Fatalf("expected next day order 3, got %d", got)
	}
	days = append(days[:1], days[2:]...)
	RenumberDays(days)
	for i, d := range days {
		if d.Order != i {
			t.Fatalf("day order keys not dense after renumber: %v", days)
		}
	}
}
