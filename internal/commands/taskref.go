package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"phototask/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the list, 0 if ID is set
	ID  string // task id, "" if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// RefError reports a reference that matches no task.
type RefError struct {
	msg string
}

func (e *RefError) Error() string { return e.msg }

// ParseTaskRef parses a task reference from args.
//
// An all-digit first argument is a position in the list as printed by
// list; anything else is a task id. Extra arguments are rejected.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", strings.Join(args, " "))
	}

	ref := strings.TrimSpace(args[0])
	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{Num: num}, nil
	}
	return TaskRef{ID: ref}, nil
}

// Resolve finds the task ref points at in tasks.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ID != "" {
		for _, t := range tasks {
			if t.ID == r.ID {
				return t, nil
			}
		}
		return service.Task{}, &RefError{msg: "task not found: " + r.ID}
	}
	if r.Num < 1 || r.Num > len(tasks) {
		return service.Task{}, &RefError{msg: fmt.Sprintf("task number out of range: %d", r.Num)}
	}
	return tasks[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
