package voxelize

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/vdbcore/pkg/grid"
	"github.com/chazu/vdbcore/pkg/mesh"
	"github.com/chazu/vdbcore/pkg/spatial"
	"github.com/chazu/vdbcore/pkg/xform"
)

// Result holds the grids a conversion produces: always the distance
// grid, plus the primitive-index grid when Params.KeepIndexGrid is
// set.
type Result struct {
	Distance *grid.Grid[float64]
	Index    *grid.Grid[int32]
}

// Driver sequences the whole mesh-to-volume pipeline behind its two
// entry points, Convert and ConvertUnsigned, stamping every call with
// a correlation ID for its log lines.
type Driver struct {
	Logger Logger
}

// NewDriver returns a Driver. A nil logger defaults to NopLogger.
func NewDriver(logger Logger) *Driver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Driver{Logger: logger}
}

// Convert runs the full signed narrow-band conversion of m into a
// level set under t, per p (after p.Clamped()).
func (d *Driver) Convert(ctx context.Context, m *mesh.Mesh, t *xform.Transform, p Params) (*Result, error) {
	return d.run(ctx, m, t, p.Clamped(), true)
}

// ConvertUnsigned runs the unsigned narrow-band conversion: every
// active voxel's distance is non-negative, and no sign propagation,
// intersection correction or self-intersection cleanup runs, since
// there is no inside/outside to get wrong. Used for open (non-closed)
// surfaces like the Disk fixture, where a signed conversion's
// contour trace would be meaningless.
func (d *Driver) ConvertUnsigned(ctx context.Context, m *mesh.Mesh, t *xform.Transform, exBand float64) (*Result, error) {
	p := Params{ExBand: exBand, SignSweeps: 1}.Clamped()
	return d.run(ctx, m, t, p, false)
}

func (d *Driver) run(ctx context.Context, m *mesh.Mesh, t *xform.Transform, p Params, signed bool) (*Result, error) {
	runID := uuid.New()
	log := d.Logger
	log.Infof("run %s: starting conversion, %d polygons, signed=%v, exBand=%.3f, inBand=%.3f",
		runID, m.NumPolygons(), signed, p.ExBand, p.InBand)

	if m.IsEmpty() {
		log.Warnf("run %s: empty mesh, returning empty grids", runID)
		return &Result{Distance: grid.New[float64](p.ExBand * t.UniformVoxelSize()), Index: emptyIndexGrid(p)}, nil
	}

	w, err := Voxelize(ctx, m, t)
	if err != nil {
		return nil, fmt.Errorf("run %s: voxelize: %w", runID, err)
	}
	log.Debugf("run %s: voxelize produced %d shell voxels", runID, w.M.ActiveVoxelCount())

	idx := spatial.Build(m, voxelizeRadius)

	var contours Contours
	if signed {
		for sweep := 0; sweep < p.SignSweeps; sweep++ {
			var err error
			contours, err = TraceContours(ctx, w)
			if err != nil {
				return nil, fmt.Errorf("run %s: trace contours: %w", runID, err)
			}
			if err := PropagateSigns(ctx, w, contours, 1); err != nil {
				return nil, fmt.Errorf("run %s: propagate signs: %w", runID, err)
			}
		}
		if err := CorrectIntersectionSigns(ctx, w, m, idx); err != nil {
			return nil, fmt.Errorf("run %s: correct intersection signs: %w", runID, err)
		}
		if err := CleanSelfIntersections(ctx, w); err != nil {
			return nil, fmt.Errorf("run %s: clean self intersections: %w", runID, err)
		}
	}

	inBand := p.InBand
	if !signed {
		inBand = 0
	}
	if err := ExpandNarrowBand(ctx, w, m, idx, contours, p.ExBand, inBand); err != nil {
		return nil, fmt.Errorf("run %s: expand narrow band: %w", runID, err)
	}
	log.Debugf("run %s: expanded to %d active voxels", runID, w.D.ActiveVoxelCount())

	if err := PostProcess(ctx, w, t, p.ExBand, inBand); err != nil {
		return nil, fmt.Errorf("run %s: post process: %w", runID, err)
	}

	log.Infof("run %s: done, %d active voxels", runID, w.D.ActiveVoxelCount())

	res := &Result{Distance: w.D}
	if p.KeepIndexGrid() {
		res.Index = w.I
	}
	return res, nil
}

func emptyIndexGrid(p Params) *grid.Grid[int32] {
	if !p.KeepIndexGrid() {
		return nil
	}
	return grid.New[int32](InvalidPrimIndex)
}
