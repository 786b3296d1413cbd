// Package occupancygrid rasterizes a trajectory-node snapshot into a 2D
// occupancy grid. It is a pure function of the snapshot and the node
// options; it never touches live backend state.
package occupancygrid

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/config"
	"github.com/cagrikilic/cartographer-ros/spatialmath"
)

// Cell values follow nav_msgs/OccupancyGrid conventions.
const (
	CellUnknown  int8 = -1
	CellFree     int8 = 0
	CellOccupied int8 = 100
)

// Grid is a row-major occupancy raster. Cells[y*Width+x] covers the square
// whose lower-left corner sits at Origin + (x, y) * Resolution.
type Grid struct {
	Stamp      time.Time
	FrameID    string
	Resolution float64
	Width      int
	Height     int
	Origin     spatialmath.Pose
	Cells      []int8
}

// At returns the cell value at grid coordinates (x, y).
func (g *Grid) At(x, y int) int8 {
	return g.Cells[y*g.Width+x]
}

// Build projects every node's range points through the node pose into a grid
// at the configured resolution, sizing the bounds from the data. Cells
// containing at least one range return are occupied, cells a node pose
// passed through are free, everything else is unknown. Returns nil when the
// snapshot is empty.
func Build(nodes []cartographer.TrajectoryNode, opts config.NodeOptions) *Grid {
	if len(nodes) == 0 {
		return nil
	}
	resolution := opts.Resolution

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	grow := func(pt r3.Vector) {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	type hit struct {
		point    r3.Vector
		occupied bool
	}
	hits := make([]hit, 0, len(nodes)*2)
	for _, node := range nodes {
		grow(node.Pose.Translation)
		hits = append(hits, hit{point: node.Pose.Translation})
		for _, pt := range node.Points {
			world := node.Pose.TransformPoint(pt)
			grow(world)
			hits = append(hits, hit{point: world, occupied: true})
		}
	}

	// Pad by one cell so boundary points land strictly inside.
	minX -= resolution
	minY -= resolution
	maxX += resolution
	maxY += resolution
	width := int(math.Ceil((maxX - minX) / resolution))
	height := int(math.Ceil((maxY - minY) / resolution))

	grid := &Grid{
		FrameID:    opts.MapFrame,
		Resolution: resolution,
		Width:      width,
		Height:     height,
		Origin:     spatialmath.NewPoseFromPoint(r3.Vector{X: minX, Y: minY}),
		Cells:      make([]int8, width*height),
	}
	for i := range grid.Cells {
		grid.Cells[i] = CellUnknown
	}
	// Occupied wins over free when both fall in one cell, so free cells are
	// written first.
	for _, pass := range []bool{false, true} {
		for _, h := range hits {
			if h.occupied != pass {
				continue
			}
			x := int((h.point.X - minX) / resolution)
			y := int((h.point.Y - minY) / resolution)
			if x < 0 || x >= width || y < 0 || y >= height {
				continue
			}
			if h.occupied {
				grid.Cells[y*width+x] = CellOccupied
			} else {
				grid.Cells[y*width+x] = CellFree
			}
		}
	}
	return grid
}
