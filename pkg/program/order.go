package program

import "sort"

// Order keys within one parent are dense: unique and contiguous from zero.
// Callers renumber after every delete or reorder; inserts append at the end.

// NextDayOrder returns the order key for a day appended to the program.
func NextDayOrder(days []Day) int {
	max := -1
	for _, d := range days {
		if d.Order > max {
			max = d.Order
		}
	}
	return max + 1
}

// NextExerciseOrder returns the order key for an exercise appended to the day.
func NextExerciseOrder(list []Exercise) int {
	max := -1
	for _, e := range list {
		if e.Order > max {
			max = e.Order
		}
	}
	return max + 1
}

// SortDays orders days by their order key, then stably by title.
func SortDays(days []Day) {
	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Order == days[j].Order {
			return days[i].Title < days[j].Title
		}
		return days[i].Order < days[j].Order
	})
}

// SortExercises orders exercises by their order key.
func SortExercises(list []Exercise) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Order < list[j].Order
	})
}

// RenumberDays rewrites order keys so they run 0..n-1 in slice order.
func RenumberDays(days []Day) {
	for i := range days {
		days[i].Order = i
	}
}

// RenumberExercises rewrites order keys so they run 0..n-1 in slice order.
func RenumberExercises(list []Exercise) {
	for i := range list {
		list[i].Order = i
	}
}

// MoveExercise shifts the exercise at from to position to and renumbers.
// Out-of-range positions are clamped; a no-op move leaves order keys dense.
func MoveExercise(list []Exercise, from, to int) {
	if len(list) == 0 || from < 0 || from >= len(list) {
		return
	}
	if to < 0 {
		to = 0
	}
	if to >= len(list) {
		to = len(list) - 1
	}
	if from == to {
		RenumberExercises(list)
		return
	}
	moved := list[from]
	rest := append(list[:from:from], list[from+1:]...)
	rest = append(rest[:to], append([]Exercise{moved}, rest[to:]...)...)
	copy(list, rest)
	RenumberExercises(list)
}
