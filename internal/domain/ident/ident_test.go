package ident

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

var testID = uuid.MustParse("6f1c2a4e-8b0d-4c3a-9e57-1d2f3a4b5c6d")

func TestNormalize_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "abc", "abc"},
		{"int", 42, 42},
		{"float", 1.5, 1.5},
		{"bool", true, true},
		{"uuid", testID, testID.String()},
		{"uuid pointer", &testID, testID.String()},
		{"nil uuid pointer", (*uuid.UUID)(nil), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Normalize(%v) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Nested(t *testing.T) {
	in := map[string]any{
		"_id":   testID,
		"title": "Data Intern",
		"refs":  []any{testID, "x", map[string]any{"owner": testID}},
		"ids":   []uuid.UUID{testID},
		"docs":  []map[string]any{{"_id": testID}},
		"empty": map[string]any{},
	}

	got := Normalize(in).(map[string]any)

	want := map[string]any{
		"_id":   testID.String(),
		"title": "Data Intern",
		"refs":  []any{testID.String(), "x", map[string]any{"owner": testID.String()}},
		"ids":   []string{testID.String()},
		"docs":  []map[string]any{{"_id": testID.String()}},
		"empty": map[string]any{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected result:\n got: %#v\nwant: %#v", got, want)
	}

	// input is left untouched
	if _, ok := in["_id"].(uuid.UUID); !ok {
		t.Error("input map was mutated")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := map[string]any{
		"_id":  testID,
		"list": []any{testID, 1, nil},
	}
	once := Normalize(in)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent:\n once: %#v\ntwice: %#v", once, twice)
	}
}

func TestNormalize_CommutesWithRecursion(t *testing.T) {
	items := []any{testID, map[string]any{"_id": testID}, "plain"}

	whole := Normalize(items).([]any)
	for i, item := range items {
		if !reflect.DeepEqual(whole[i], Normalize(item)) {
			t.Errorf("element %d: container result %#v != element result %#v", i, whole[i], Normalize(item))
		}
	}
}

func TestNormalize_EmptyContainers(t *testing.T) {
	if got := Normalize([]any{}); len(got.([]any)) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
	if got := Normalize([]any(nil)); got.([]any) != nil {
		t.Errorf("expected nil slice, got %#v", got)
	}
	if got := NormalizeMap(nil); got != nil {
		t.Errorf("expected nil map, got %#v", got)
	}
}
