// Package optim tunes configuration parameters by exhaustive grid search.
package optim

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/experiment"
)

// GridSearch evaluates every combination of parameter values. Parameters are
// named as accepted by config.Config.SetParam.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize selects the largest metric instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs one experiment per grid point on base, in parallel, and
// returns the best parameters, the best metric value and every point in
// grid order. Points whose run fails are skipped when ranking.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string) (map[string]float64, float64, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, err := base.GetParam(name); err != nil {
			return nil, 0, nil, err
		}
	}

	points := g.grid()
	dynamo.ParallelFor(len(points), 1, func(start, end int) {
		for i := start; i < end; i++ {
			points[i].Value, points[i].Err = evaluate(ctx, base, registry, points[i].Params, metricName)
		}
	})

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	for _, p := range points {
		if p.Err != nil {
			log.WithError(p.Err).WithField("params", p.Params).Debug("grid point failed")
			continue
		}
		if (g.Maximize && p.Value > best) || (!g.Maximize && p.Value < best) {
			best = p.Value
			bestParams = p.Params
		}
	}
	if bestParams == nil {
		if len(points) > 0 && points[0].Err != nil {
			return nil, 0, points, fmt.Errorf("optim: every grid point failed: %w", points[0].Err)
		}
		return nil, 0, points, fmt.Errorf("optim: empty grid")
	}
	return bestParams, best, points, nil
}

// grid lists the cartesian product of the ranges, last parameter fastest.
func (g *GridSearch) grid() []Point {
	var points []Point
	var walk func(depth int, current map[string]float64)
	walk = func(depth int, current map[string]float64) {
		if depth == len(g.paramNames) {
			points = append(points, Point{Params: current})
			return
		}
		for _, val := range g.ranges[depth] {
			next := make(map[string]float64, len(current)+1)
			for k, v := range current {
				next[k] = v
			}
			next[g.paramNames[depth]] = val
			walk(depth+1, next)
		}
	}
	walk(0, map[string]float64{})
	return points
}

func evaluate(ctx context.Context, base *config.Config, registry *experiment.Registry, params map[string]float64, metricName string) (float64, error) {
	cfg := base.Clone()
	for name, v := range params {
		if err := cfg.SetParam(name, v); err != nil {
			return 0, err
		}
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, result.Errors[0]
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: no metric %q", metricName)
	}
	return val, nil
}
