package filter

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewMatch_Validation(t *testing.T) {
	if _, err := NewMatch("", "x"); err == nil {
		t.Error("expected error for empty key")
	}
	_, err := NewMatch("location", "")
	if err == nil {
		t.Fatal("expected error for empty value")
	}
	if !strings.Contains(err.Error(), "location") {
		t.Errorf("error should name the key: %q", err)
	}

	c, err := NewMatch("location", "Remote")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "location" || c.Match() != "Remote" {
		t.Errorf("got %s=%s", c.Key(), c.Match())
	}
}

func TestNewExpression_TooMany(t *testing.T) {
	conds := make([]Condition, MaxConditionsPerGroup+1)
	for i := range conds {
		conds[i] = Condition{key: "k", match: fmt.Sprint(i)}
	}

	tests := []struct {
		name                  string
		must, should, mustNot []Condition
	}{
		{"must", conds, nil, nil},
		{"should", nil, conds, nil},
		{"must_not", nil, nil, conds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExpression(tt.must, tt.should, tt.mustNot)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "too many") {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestAnyOf(t *testing.T) {
	expr, err := AnyOf("location", []string{"Remote", "", "Pune"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Should()) != 2 {
		t.Fatalf("expected 2 should conditions, got %d", len(expr.Should()))
	}
	if len(expr.Must()) != 0 || len(expr.MustNot()) != 0 {
		t.Error("expected only should conditions")
	}
	if expr.Should()[1].Match() != "Pune" {
		t.Errorf("got %q", expr.Should()[1].Match())
	}
}

func TestAnyOf_Empty(t *testing.T) {
	expr, err := AnyOf("location", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Error("expected empty expression")
	}
}

func TestAnyOf_Overflow(t *testing.T) {
	values := make([]string, MaxConditionsPerGroup+1)
	for i := range values {
		values[i] = fmt.Sprintf("city-%d", i)
	}
	if _, err := AnyOf("location", values); err == nil {
		t.Error("expected overflow error")
	}
}
