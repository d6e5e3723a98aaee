package model

import "testing"

func sampleTasks() []Task {
	return []Task{
		{ID: "t1", Title: "Buy milk", Completed: false},
		{ID: "t2", Title: "Ship release", Completed: true},
		{ID: "t3", Title: "Water plants", Completed: false},
		{ID: "t4", Title: "File taxes", Completed: true},
	}
}

// pending and completed must partition the full set: together they cover
// everything, and no task matches both.
func TestFilterPartition(t *testing.T) {
	for _, task := range sampleTasks() {
		if !FilterAll.Matches(task) {
			t.Fatalf("task %s not matched by all", task.ID)
		}
		p := FilterPending.Matches(task)
		c := FilterCompleted.Matches(task)
		if p == c {
			t.Fatalf("task %s: pending=%v completed=%v, want exactly one", task.ID, p, c)
		}
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []TaskFilter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []TaskFilter{FilterAll, FilterPending, FilterCompleted, FilterAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle %v, want %v", seen, want)
		}
	}
}
