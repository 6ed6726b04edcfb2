package tasksync

import "phototask/internal/service"

// pending is an optimistic mutation awaiting backend confirmation.
// On failure the snapshot replaces the current list as a whole.
type pending struct {
	snapshot []service.Task
}

// cloneTasks copies tasks by value, including their locations.
func cloneTasks(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	for i, t := range tasks {
		if t.Location != nil {
			loc := *t.Location
			t.Location = &loc
		}
		out[i] = t
	}
	return out
}

func indexOf(tasks []service.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// applyToggle flips the completed flag of task id.
// found is false, and tasks are returned untouched, when id is absent.
func applyToggle(tasks []service.Task, id string) (next []service.Task, p pending, completed, found bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks, pending{}, false, false
	}
	p = pending{snapshot: cloneTasks(tasks)}
	next = cloneTasks(tasks)
	next[i].Completed = !next[i].Completed
	return next, p, next[i].Completed, true
}

// applyDelete removes task id. Absent ids leave the list unchanged.
func applyDelete(tasks []service.Task, id string) (next []service.Task, p pending) {
	p = pending{snapshot: cloneTasks(tasks)}
	next = make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	return cloneTasks(next), p
}

// applyCreate prepends a confirmed task.
func applyCreate(tasks []service.Task, t service.Task) []service.Task {
	next := make([]service.Task, 0, len(tasks)+1)
	next = append(next, t)
	return append(next, cloneTasks(tasks)...)
}
