package tasksync

import (
	"reflect"
	"testing"

	"phototask/internal/service"
)

func sample() []service.Task {
	return []service.Task{
		{ID: "t1", Title: "Dune", Location: &service.Location{Latitude: 1, Longitude: 2}},
		{ID: "t2", Title: "Emma", Completed: true},
	}
}

func TestApplyToggle(t *testing.T) {
	tasks := sample()

	next, p, completed, found := applyToggle(tasks, "t1")
	if !found || !completed {
		t.Fatalf("expected t1 found and completed, got found=%v completed=%v", found, completed)
	}
	if !next[0].Completed || !next[1].Completed {
		t.Errorf("unexpected next state %+v", next)
	}
	if tasks[0].Completed {
		t.Error("input must not be mutated")
	}
	if !reflect.DeepEqual(p.snapshot, sample()) {
		t.Errorf("snapshot differs from input: %+v", p.snapshot)
	}

	// The snapshot owns its locations.
	next[0].Location.Latitude = 99
	if p.snapshot[0].Location.Latitude != 1 || tasks[0].Location.Latitude != 1 {
		t.Error("snapshot shares location with next state")
	}
}

func TestApplyToggle_Unknown(t *testing.T) {
	tasks := sample()
	next, _, _, found := applyToggle(tasks, "nope")
	if found {
		t.Fatal("expected unknown id not to be found")
	}
	if !reflect.DeepEqual(next, tasks) {
		t.Errorf("expected unchanged list, got %+v", next)
	}
}

func TestApplyDelete(t *testing.T) {
	tasks := sample()

	next, p := applyDelete(tasks, "t1")
	if len(next) != 1 || next[0].ID != "t2" {
		t.Errorf("unexpected next state %+v", next)
	}
	if !reflect.DeepEqual(p.snapshot, sample()) {
		t.Errorf("snapshot differs from input: %+v", p.snapshot)
	}

	next, _ = applyDelete(tasks, "nope")
	if !reflect.DeepEqual(next, tasks) {
		t.Errorf("expected unchanged list, got %+v", next)
	}
}

func TestApplyCreate(t *testing.T) {
	next := applyCreate(sample(), service.Task{ID: "t3"})
	var ids []string
	for _, task := range next {
		ids = append(ids, task.ID)
	}
	if !reflect.DeepEqual(ids, []string{"t3", "t1", "t2"}) {
		t.Errorf("expected new task first, got %v", ids)
	}
}
