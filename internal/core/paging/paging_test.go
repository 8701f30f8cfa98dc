package paging

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	page, err := Parse(0, "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if page.Limit != DefaultPageSize || page.Offset != 0 {
		t.Fatalf("unexpected default page: %+v", page)
	}

	page, err = Parse(10, " 20 ")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if page.Limit != 10 || page.Offset != 20 {
		t.Fatalf("unexpected page: %+v", page)
	}

	if _, err := Parse(MaxPageSize+1, ""); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	for _, token := range []string{"abc", "-1"} {
		if _, err := Parse(10, token); !errors.Is(err, ErrInvalidPageToken) {
			t.Fatalf("expected ErrInvalidPageToken for %q, got %v", token, err)
		}
	}
}

func TestTrim(t *testing.T) {
	t.Parallel()

	items, next := Trim([]int{1, 2, 3}, Page{Limit: 2, Offset: 4})
	if len(items) != 2 || next != "6" {
		t.Fatalf("unexpected trim result: %v %q", items, next)
	}

	items, next = Trim([]int{1, 2}, Page{Limit: 2})
	if len(items) != 2 || next != "" {
		t.Fatalf("unexpected trim result: %v %q", items, next)
	}
}
