package employee

import (
	"errors"
	"testing"
)

func TestParseSortField(t *testing.T) {
	t.Parallel()

	cases := map[string]SortField{
		"":           SortByName,
		"name":       SortByName,
		"nama":       SortByName,
		" Jabatan ":  SortByPosition,
		"position":   SortByPosition,
		"GAJI":       SortBySalary,
		"salary":     SortBySalary,
		"id":         SortByID,
		"created_at": SortByCreatedAt,
		"updated_at": SortByUpdatedAt,
	}

	for raw, want := range cases {
		got, err := ParseSortField(raw)
		if err != nil {
			t.Fatalf("ParseSortField(%q) returned error: %v", raw, err)
		}
		if got != want || !got.Valid() {
			t.Fatalf("ParseSortField(%q) = %s, want %s", raw, got, want)
		}
	}

	for _, raw := range []string{"invalid_column", "name; DROP TABLE employees", "email"} {
		if _, err := ParseSortField(raw); !errors.Is(err, ErrInvalidSortField) {
			t.Fatalf("ParseSortField(%q) expected ErrInvalidSortField, got %v", raw, err)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]SortOrder{"": SortAsc, "asc": SortAsc, "DESC": SortDesc, " desc ": SortDesc} {
		got, err := ParseSortOrder(raw)
		if err != nil || got != want {
			t.Fatalf("ParseSortOrder(%q) = %s, %v; want %s", raw, got, err, want)
		}
	}

	if _, err := ParseSortOrder("up"); !errors.Is(err, ErrInvalidSortOrder) {
		t.Fatalf("expected ErrInvalidSortOrder, got %v", err)
	}

	if SortAsc.Toggle() != SortDesc || SortDesc.Toggle() != SortAsc {
		t.Fatalf("unexpected toggle")
	}
	if SortOrder("up").Valid() || SortField("email").Valid() {
		t.Fatalf("unexpected validity for unknown values")
	}
}
