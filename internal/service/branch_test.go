package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunBranchesAllSettled(t *testing.T) {
	branches := []branch{
		{name: "ok", run: func(ctx context.Context) error { return nil }},
		{name: "fails", run: func(ctx context.Context) error { return errors.New("boom") }},
		{name: "slow", run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		{name: "panics", run: func(ctx context.Context) error { panic("unexpected") }},
	}

	report := runBranches(context.Background(), 50*time.Millisecond, zap.NewNop(), branches)

	if len(report.Outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(report.Outcomes))
	}
	degraded := map[string]bool{}
	for _, name := range report.Degraded() {
		degraded[name] = true
	}
	if degraded["ok"] {
		t.Fatalf("expected ok branch to succeed")
	}
	for _, name := range []string{"fails", "slow", "panics"} {
		if !degraded[name] {
			t.Fatalf("expected %s to be degraded, got %v", name, report.Degraded())
		}
	}
	for _, o := range report.Outcomes {
		if o.Name == "slow" && !errors.Is(o.Err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded for slow branch, got %v", o.Err)
		}
	}
}

func TestRunBranchesEmpty(t *testing.T) {
	report := runBranches(context.Background(), time.Second, zap.NewNop(), nil)
	if len(report.Degraded()) != 0 {
		t.Fatalf("expected no degraded branches")
	}
}

func TestRunBranchesKeepsDeclarationOrder(t *testing.T) {
	// las ramas declaradas primero terminan último
	names := []string{"movie", "music", "pool", "facts"}
	branches := make([]branch, len(names))
	for i, name := range names {
		delay := time.Duration(len(names)-i) * 10 * time.Millisecond
		branches[i] = branch{name: name, run: func(ctx context.Context) error {
			time.Sleep(delay)
			return errors.New("down")
		}}
	}

	for run := 0; run < 5; run++ {
		report := runBranches(context.Background(), time.Second, zap.NewNop(), branches)
		if got := strings.Join(report.Degraded(), ","); got != "movie,music,pool,facts" {
			t.Fatalf("expected declaration order, got %s", got)
		}
		for i, o := range report.Outcomes {
			if o.Name != names[i] {
				t.Fatalf("outcome %d: expected %s, got %s", i, names[i], o.Name)
			}
		}
	}
}
