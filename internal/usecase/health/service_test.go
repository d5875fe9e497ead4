package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockIndexChecker struct {
	exists bool
	err    error
	name   string
}

func (m *mockIndexChecker) IndexExists(_ context.Context, name string) (bool, error) {
	m.name = name
	return m.exists, m.err
}

type mockLLMChecker struct {
	err   error
	calls int
}

func (m *mockLLMChecker) HealthCheck(_ context.Context) error {
	m.calls++
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	idx := &mockIndexChecker{exists: true}
	svc := New(&mockDBPinger{}, idx, "jobs:idx", &mockLLMChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, c := range []string{ComponentDatabase, ComponentIndex, ComponentLLM} {
		if r.Checks[c] != CheckOK {
			t.Errorf("expected %s %q, got %q", c, CheckOK, r.Checks[c])
		}
	}
	if idx.name != "jobs:idx" {
		t.Errorf("checked index %q", idx.name)
	}
}

func TestCheck_DBErrorShortCircuits(t *testing.T) {
	llm := &mockLLMChecker{}
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockIndexChecker{exists: true}, "idx", llm)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentDatabase] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks[ComponentDatabase])
	}
	if llm.calls != 0 {
		t.Error("LLM must not be checked when the database is down")
	}
}

func TestCheck_Degraded(t *testing.T) {
	tests := []struct {
		name      string
		index     *mockIndexChecker
		llm       *mockLLMChecker
		component string
		want      CheckResult
	}{
		{"index missing", &mockIndexChecker{}, &mockLLMChecker{}, ComponentIndex, CheckMissing},
		{"index error", &mockIndexChecker{err: errors.New("boom")}, &mockLLMChecker{}, ComponentIndex, CheckError},
		{"llm error", &mockIndexChecker{exists: true}, &mockLLMChecker{err: errors.New("timeout")}, ComponentLLM, CheckError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&mockDBPinger{}, tt.index, "idx", tt.llm).Check(context.Background())
			if r.Status != Degraded {
				t.Errorf("expected %q, got %q", Degraded, r.Status)
			}
			if r.Checks[tt.component] != tt.want {
				t.Errorf("expected %s %q, got %q", tt.component, tt.want, r.Checks[tt.component])
			}
		})
	}
}

func TestCheck_OptionalComponentsNil(t *testing.T) {
	r := New(&mockDBPinger{}, nil, "", nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only database check, got %v", r.Checks)
	}
}
