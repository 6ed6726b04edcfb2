package commands

import (
	"errors"
	"testing"

	"phototask/internal/service"
)

func TestParseTaskRef_Numeric(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 || ref.ID != "" {
		t.Errorf("expected Num 5, got %+v", ref)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"0b7c5e2a-9d1f-4c3b-8e6a-1f2d3c4b5a69"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 0 || ref.ID != "0b7c5e2a-9d1f-4c3b-8e6a-1f2d3c4b5a69" {
		t.Errorf("expected id ref, got %+v", ref)
	}
}

func TestParseTaskRef_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "task reference required"},
		{[]string{""}, "task reference required"},
		{[]string{"0"}, "invalid task reference: 0"},
		{[]string{"1", "2"}, "invalid task reference: 1 2"},
		{[]string{"99999999999999999999"}, "invalid task reference: 99999999999999999999"},
	}
	for _, tt := range tests {
		_, err := ParseTaskRef(tt.args)
		if err == nil {
			t.Errorf("%q: expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.args, tt.want, err.Error())
		}
	}

	if _, err := ParseTaskRef(nil); !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_NonASCIIDigits(t *testing.T) {
	// Arabic-Indic digits are ids, not positions.
	ref, err := ParseTaskRef([]string{"١٢"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "١٢" {
		t.Errorf("expected id ref, got %+v", ref)
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	tasks := []service.Task{{ID: "t1", Title: "Dune"}, {ID: "t2", Title: "Emma"}}

	got, err := TaskRef{Num: 2}.Resolve(tasks)
	if err != nil || got.ID != "t2" {
		t.Errorf("expected t2, got %+v, %v", got, err)
	}

	got, err = TaskRef{ID: "t1"}.Resolve(tasks)
	if err != nil || got.Title != "Dune" {
		t.Errorf("expected t1, got %+v, %v", got, err)
	}

	var refErr *RefError
	for _, ref := range []TaskRef{{Num: 3}, {ID: "t9"}} {
		if _, err := ref.Resolve(tasks); !errors.As(err, &refErr) {
			t.Errorf("%+v: expected *RefError, got %v", ref, err)
		}
	}
}
