// Package terrain wraps an elevation raster into a queryable surface: point
// elevation lookups and terrain-occlusion line-of-sight tests. A Surface is
// immutable after construction and safe for concurrent use.
package terrain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrOutOfBounds = errors.New("coordinate outside terrain extent")
	ErrNoData      = errors.New("no elevation data at coordinate")
	ErrBadGrid     = errors.New("invalid elevation grid")
)

// Extent is the axis-aligned bounding box of a surface in the campaign CRS.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

// Surface is an immutable elevation grid over a planar projected CRS.
// Row 0 is the southernmost row; elevations are metres ASL.
type Surface struct {
	grid     *mat.Dense
	rows     int
	cols     int
	originX  float64 // west edge of the grid node extent
	originY  float64 // south edge of the grid node extent
	cellSize float64
	nodata   float64

	minElev float64
	maxElev float64
}

// NewSurface builds a Surface from row-major elevation samples. elev holds
// rows*cols values, row 0 southernmost. nodata marks missing cells.
func NewSurface(elev []float64, rows, cols int, originX, originY, cellSize, nodata float64) (*Surface, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%w: need at least 2x2 nodes, got %dx%d", ErrBadGrid, rows, cols)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrBadGrid, cellSize)
	}
	if len(elev) != rows*cols {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grid", ErrBadGrid, len(elev), rows, cols)
	}

	minElev := math.Inf(1)
	maxElev := math.Inf(-1)
	valid := 0
	for _, v := range elev {
		if v == nodata {
			continue
		}
		valid++
		if v < minElev {
			minElev = v
		}
		if v > maxElev {
			maxElev = v
		}
	}
	if valid == 0 {
		return nil, fmt.Errorf("%w: all cells are nodata", ErrBadGrid)
	}

	return &Surface{
		grid:     mat.NewDense(rows, cols, elev),
		rows:     rows,
		cols:     cols,
		originX:  originX,
		originY:  originY,
		cellSize: cellSize,
		nodata:   nodata,
		minElev:  minElev,
		maxElev:  maxElev,
	}, nil
}

// Extent returns the queryable node extent of the surface.
func (s *Surface) Extent() Extent {
	return Extent{
		MinX: s.originX,
		MinY: s.originY,
		MaxX: s.originX + float64(s.cols-1)*s.cellSize,
		MaxY: s.originY + float64(s.rows-1)*s.cellSize,
	}
}

// CellSize returns the grid spacing in metres.
func (s *Surface) CellSize() float64 { return s.cellSize }

// MinElevation returns the lowest valid sample.
func (s *Surface) MinElevation() float64 { return s.minElev }

// MaxElevation returns the highest valid sample.
func (s *Surface) MaxElevation() float64 { return s.maxElev }

// Dims returns the node counts (rows, cols).
func (s *Surface) Dims() (rows, cols int) { return s.rows, s.cols }

// NodePosition returns the planar coordinates of grid node (row, col).
func (s *Surface) NodePosition(row, col int) (x, y float64) {
	return s.originX + float64(col)*s.cellSize, s.originY + float64(row)*s.cellSize
}

// NodeElevation returns the raw sample at (row, col), which may be nodata.
func (s *Surface) NodeElevation(row, col int) float64 {
	return s.grid.At(row, col)
}

// IsNoData reports whether the sample at (row, col) is missing.
func (s *Surface) IsNoData(row, col int) bool {
	return s.grid.At(row, col) == s.nodata
}

// ElevationAt returns the bilinearly interpolated elevation at (x, y).
// Queries outside the grid extent fail with ErrOutOfBounds; the surface
// never extrapolates. Queries over missing cells fail with ErrNoData.
func (s *Surface) ElevationAt(x, y float64) (float64, error) {
	gx := (x - s.originX) / s.cellSize
	gy := (y - s.originY) / s.cellSize

	if gx < 0 || gy < 0 || gx > float64(s.cols-1) || gy > float64(s.rows-1) {
		return 0, fmt.Errorf("%w: (%g, %g)", ErrOutOfBounds, x, y)
	}

	col := int(gx)
	row := int(gy)
	// Clamp so queries on the east/north edges use the last full cell.
	if col == s.cols-1 {
		col--
	}
	if row == s.rows-1 {
		row--
	}

	z00 := s.grid.At(row, col)
	z01 := s.grid.At(row, col+1)
	z10 := s.grid.At(row+1, col)
	z11 := s.grid.At(row+1, col+1)
	if z00 == s.nodata || z01 == s.nodata || z10 == s.nodata || z11 == s.nodata {
		return 0, fmt.Errorf("%w: (%g, %g)", ErrNoData, x, y)
	}

	fx := gx - float64(col)
	fy := gy - float64(row)

	south := z00*(1-fx) + z01*fx
	north := z10*(1-fx) + z11*fx
	return south*(1-fy) + north*fy, nil
}

// SlopeAt returns the terrain slope in degrees at (x, y), from central
// differences over one cell in each direction (clamped at the extent).
func (s *Surface) SlopeAt(x, y float64) (float64, error) {
	ext := s.Extent()
	step := s.cellSize

	xw := math.Max(x-step, ext.MinX)
	xe := math.Min(x+step, ext.MaxX)
	ys := math.Max(y-step, ext.MinY)
	yn := math.Min(y+step, ext.MaxY)

	zw, err := s.ElevationAt(xw, y)
	if err != nil {
		return 0, err
	}
	ze, err := s.ElevationAt(xe, y)
	if err != nil {
		return 0, err
	}
	zs, err := s.ElevationAt(x, ys)
	if err != nil {
		return 0, err
	}
	zn, err := s.ElevationAt(x, yn)
	if err != nil {
		return 0, err
	}

	dzdx := (ze - zw) / (xe - xw)
	dzdy := (zn - zs) / (yn - ys)
	return math.Atan(math.Sqrt(dzdx*dzdx+dzdy*dzdy)) * 180 / math.Pi, nil
}
