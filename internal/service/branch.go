package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scent-llm/internal/metrics"
)

// Outcome es el resultado de una rama de búsqueda.
type Outcome struct {
	Name     string
	OK       bool
	Err      error
	Duration time.Duration
}

// BranchReport junta los Outcome de todas las ramas de un análisis, en el orden en que se declararon.
type BranchReport struct {
	Outcomes []Outcome
}

// Degraded devuelve los nombres de las ramas que fallaron, en orden de declaración.
func (r *BranchReport) Degraded() []string {
	var out []string
	for _, o := range r.Outcomes {
		if !o.OK {
			out = append(out, o.Name)
		}
	}
	return out
}

// branch es una consulta best-effort; el error nunca corta a las demás.
type branch struct {
	name string
	run  func(ctx context.Context) error
}

// runBranches lanza todas las ramas en paralelo, cada una con su timeout, y espera a todas.
func runBranches(ctx context.Context, timeout time.Duration, logger *zap.Logger, branches []branch) *BranchReport {
	// cada goroutine escribe solo su índice
	report := &BranchReport{Outcomes: make([]Outcome, len(branches))}
	var g errgroup.Group
	for i, b := range branches {
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			err := safeRun(bctx, b.run)
			o := Outcome{Name: b.name, OK: err == nil, Err: err, Duration: time.Since(start)}
			report.Outcomes[i] = o
			metrics.RecordBranch(b.name, o.OK, o.Duration)
			if err != nil {
				logger.Warn("search branch degraded",
					zap.String("branch", b.name),
					zap.Duration("duration", o.Duration),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func safeRun(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("branch panic: %v", r)
		}
	}()
	return fn(ctx)
}
