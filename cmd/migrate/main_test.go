package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	upSteps   int
	downSteps int
	version   int64
	applied   int
	upErr     error
	closed    bool
}

func (f *fakeStore) MigrateUp(_ context.Context, steps int) error {
	f.upSteps = steps
	if f.upErr != nil {
		return f.upErr
	}
	f.version, f.applied = 2, 2
	return nil
}

func (f *fakeStore) MigrateDown(_ context.Context, steps int) error {
	f.downSteps = steps
	f.version, f.applied = 1, 1
	return nil
}

func (f *fakeStore) MigrationStatus(context.Context) (int64, int, error) {
	return f.version, f.applied, nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func withFakeStore(t *testing.T, store *fakeStore) *string {
	t.Helper()

	var gotDSN string
	prev := openStore
	t.Cleanup(func() { openStore = prev })
	openStore = func(_ context.Context, dsn string) (migrator, error) {
		gotDSN = dsn
		return store, nil
	}
	return &gotDSN
}

func noEnv(string) string { return "" }

func TestRun_Directions(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		wantOutput string
		check      func(t *testing.T, store *fakeStore)
	}{
		{
			name:       "up applies all by default",
			args:       []string{"-dsn", "postgres://test"},
			wantOutput: "migrate up ok: version=2 applied=2",
			check: func(t *testing.T, store *fakeStore) {
				if store.upSteps != 0 {
					t.Errorf("expected steps=0, got %d", store.upSteps)
				}
			},
		},
		{
			name:       "down rolls back one by default",
			args:       []string{"-dsn", "postgres://test", "-direction", "DOWN"},
			wantOutput: "migrate down ok: version=1 applied=1",
			check: func(t *testing.T, store *fakeStore) {
				if store.downSteps != 1 {
					t.Errorf("expected steps=1, got %d", store.downSteps)
				}
			},
		},
		{
			name:       "status",
			args:       []string{"-dsn", "postgres://test", "-direction", "status"},
			wantOutput: "migrate status ok: version=0 applied=0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			withFakeStore(t, store)

			var stdout, stderr bytes.Buffer
			if code := run(tc.args, &stdout, &stderr, noEnv); code != 0 {
				t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tc.wantOutput) {
				t.Fatalf("expected output %q, got %q", tc.wantOutput, stdout.String())
			}
			if !store.closed {
				t.Error("store must be closed")
			}
			if tc.check != nil {
				tc.check(t, store)
			}
		})
	}
}

func TestRun_DSNFromEnv(t *testing.T) {
	gotDSN := withFakeStore(t, &fakeStore{})

	getenv := func(key string) string {
		if key == dsnEnv {
			return " postgres://from-env "
		}
		return ""
	}
	if code := run(nil, &bytes.Buffer{}, &bytes.Buffer{}, getenv); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if *gotDSN != "postgres://from-env" {
		t.Fatalf("expected dsn from env, got %q", *gotDSN)
	}
}

func TestRun_InvalidArgs(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing dsn", args: nil, wantErr: dsnEnv},
		{name: "bad direction", args: []string{"-dsn", "x", "-direction", "sideways"}, wantErr: "unsupported direction"},
		{name: "negative steps", args: []string{"-dsn", "x", "-steps", "-1"}, wantErr: "steps must be >= 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			withFakeStore(t, &fakeStore{})

			var stderr bytes.Buffer
			if code := run(tc.args, &bytes.Buffer{}, &stderr, noEnv); code != 2 {
				t.Fatalf("expected exit code 2, got %d", code)
			}
			if !strings.Contains(stderr.String(), tc.wantErr) {
				t.Fatalf("expected stderr containing %q, got %q", tc.wantErr, stderr.String())
			}
		})
	}
}

func TestRun_MigrationFailure(t *testing.T) {
	withFakeStore(t, &fakeStore{upErr: errors.New("lock timeout")})

	var stderr bytes.Buffer
	if code := run([]string{"-dsn", "x"}, &bytes.Buffer{}, &stderr, noEnv); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "migrate up failed: lock timeout") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}
