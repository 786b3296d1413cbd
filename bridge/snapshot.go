package bridge

import (
	"time"

	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/occupancygrid"
	"github.com/cagrikilic/cartographer-ros/spatialmath"
)

// SubmapEntry describes one submap in a submap list snapshot.
type SubmapEntry struct {
	Version int
	Pose    spatialmath.Pose
}

// TrajectorySubmapList lists one trajectory's submaps in ascending index
// order.
type TrajectorySubmapList struct {
	TrajectoryID cartographer.TrajectoryID
	Submaps      []SubmapEntry
}

// SubmapList is a consistent snapshot of every trajectory's submaps, in
// ascending trajectory id order.
type SubmapList struct {
	Stamp        time.Time
	FrameID      string
	Trajectories []TrajectorySubmapList
}

// GetSubmapList assembles the submap list across all trajectories, finished
// or not. The backend mutates its pose graph concurrently, so the submap
// count and the transform fetch are cross-checked per trajectory; a mismatch
// means the backend contract was violated and surfaces as a
// ConsistencyError rather than a torn snapshot.
func (b *MapBuilderBridge) GetSubmapList() (*SubmapList, error) {
	list := &SubmapList{
		Stamp:   b.clock.Now(),
		FrameID: b.opts.MapFrame,
	}
	numTrajectories := b.mapBuilder.NumTrajectoryBuilders()
	for id := 0; id < numTrajectories; id++ {
		trajectoryID := cartographer.TrajectoryID(id)
		submapCount := b.mapBuilder.GetSubmapCount(trajectoryID)
		submapData := b.mapBuilder.GetSubmapData(trajectoryID)
		if len(submapData) != submapCount {
			return nil, &ConsistencyError{
				Trajectory:     trajectoryID,
				SubmapCount:    submapCount,
				TransformCount: len(submapData),
			}
		}
		entries := make([]SubmapEntry, 0, submapCount)
		for _, data := range submapData {
			entries = append(entries, SubmapEntry{Version: data.Version, Pose: data.Pose})
		}
		list.Trajectories = append(list.Trajectories, TrajectorySubmapList{
			TrajectoryID: trajectoryID,
			Submaps:      entries,
		})
	}
	return list, nil
}

// BuildOccupancyGrid rasterizes the full node snapshot across all
// trajectories. Returns nil when no trajectory nodes exist yet.
func (b *MapBuilderBridge) BuildOccupancyGrid() *occupancygrid.Grid {
	nodes := b.mapBuilder.GetAllTrajectoryNodes()
	if len(nodes) == 0 {
		return nil
	}
	grid := b.buildGrid(nodes, b.opts)
	if grid != nil {
		grid.Stamp = b.clock.Now()
	}
	return grid
}
