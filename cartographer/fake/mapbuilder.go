// Package fake implements an in-memory SLAM backend for tests and demos. It
// accumulates trajectory nodes and submaps from ingested range data but does
// no scan matching or optimization.
package fake

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/spatialmath"
)

// nodesPerSubmap controls how many ingested batches fold into one submap
// before a new one is started.
const nodesPerSubmap = 10

// MapBuilder is a thread safe in-memory cartographer.MapBuilder.
type MapBuilder struct {
	mu           sync.Mutex
	trajectories []*trajectory
}

type trajectory struct {
	id        cartographer.TrajectoryID
	sensorIDs map[string]bool
	finished  bool
	nodes     []cartographer.TrajectoryNode
	submaps   []*submap
}

type submap struct {
	version int
	pose    spatialmath.Pose
	points  []r3.Vector
}

// NewMapBuilder returns an empty backend.
func NewMapBuilder() *MapBuilder {
	return &MapBuilder{}
}

// AddTrajectoryBuilder allocates the next trajectory id. Ids are indices
// into the trajectory slice, so they are monotonic and never reused.
func (m *MapBuilder) AddTrajectoryBuilder(sensorIDs []string) (cartographer.TrajectoryID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idSet := make(map[string]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		idSet[id] = true
	}
	traj := &trajectory{
		id:        cartographer.TrajectoryID(len(m.trajectories)),
		sensorIDs: idSet,
	}
	m.trajectories = append(m.trajectories, traj)
	return traj.id, nil
}

// GetTrajectoryBuilder returns the ingestion path for the given trajectory.
func (m *MapBuilder) GetTrajectoryBuilder(id cartographer.TrajectoryID) cartographer.TrajectoryBuilder {
	return &trajectoryBuilder{m: m, id: id}
}

// FinishTrajectory marks the trajectory complete; later ingestion fails.
func (m *MapBuilder) FinishTrajectory(id cartographer.TrajectoryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	traj, err := m.trajectoryLocked(id)
	if err != nil {
		return err
	}
	if traj.finished {
		return errors.Errorf("trajectory %d already finished", id)
	}
	traj.finished = true
	return nil
}

// SubmapToRaster renders a submap as a coarse hit-count raster.
func (m *MapBuilder) SubmapToRaster(id cartographer.TrajectoryID, submapIndex int) (*cartographer.SubmapRaster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	traj, err := m.trajectoryLocked(id)
	if err != nil {
		return nil, err
	}
	if submapIndex < 0 || submapIndex >= len(traj.submaps) {
		return nil, errors.Errorf(
			"requested submap %d from trajectory %d but there are only %d submaps in this trajectory",
			submapIndex, id, len(traj.submaps))
	}
	sm := traj.submaps[submapIndex]
	const width, height = 8, 8
	cells := make([]byte, width*height)
	for _, pt := range sm.points {
		x := int(pt.X) % width
		if x < 0 {
			x += width
		}
		y := int(pt.Y) % height
		if y < 0 {
			y += height
		}
		cells[y*width+x]++
	}
	return &cartographer.SubmapRaster{
		Version:    sm.version,
		Cells:      cells,
		Width:      width,
		Height:     height,
		Resolution: 0.05,
		SlicePose:  sm.pose,
	}, nil
}

// RunFinalOptimization is a no-op; the fake never revises poses.
func (m *MapBuilder) RunFinalOptimization() {}

// GetAllTrajectoryNodes returns a copy of every trajectory's nodes.
func (m *MapBuilder) GetAllTrajectoryNodes() []cartographer.TrajectoryNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var nodes []cartographer.TrajectoryNode
	for _, traj := range m.trajectories {
		nodes = append(nodes, traj.nodes...)
	}
	return nodes
}

// NumTrajectoryBuilders returns how many trajectories have been allocated.
func (m *MapBuilder) NumTrajectoryBuilders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trajectories)
}

// GetSubmapCount returns the submap count for a trajectory, or zero for an
// unknown id.
func (m *MapBuilder) GetSubmapCount(id cartographer.TrajectoryID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	traj, err := m.trajectoryLocked(id)
	if err != nil {
		return 0
	}
	return len(traj.submaps)
}

// GetSubmapData returns version and placement per submap in index order.
func (m *MapBuilder) GetSubmapData(id cartographer.TrajectoryID) []cartographer.SubmapEntryData {
	m.mu.Lock()
	defer m.mu.Unlock()
	traj, err := m.trajectoryLocked(id)
	if err != nil {
		return nil
	}
	data := make([]cartographer.SubmapEntryData, 0, len(traj.submaps))
	for _, sm := range traj.submaps {
		data = append(data, cartographer.SubmapEntryData{Version: sm.version, Pose: sm.pose})
	}
	return data
}

func (m *MapBuilder) trajectoryLocked(id cartographer.TrajectoryID) (*trajectory, error) {
	if id < 0 || int(id) >= len(m.trajectories) {
		return nil, errors.Errorf("unknown trajectory %d", id)
	}
	return m.trajectories[id], nil
}

type trajectoryBuilder struct {
	m  *MapBuilder
	id cartographer.TrajectoryID
}

// AddRangeData folds one batch of range data into the trajectory: a node is
// appended at a pose derived from the node count, and the points accumulate
// into the current submap.
func (tb *trajectoryBuilder) AddRangeData(ctx context.Context, data cartographer.RangeData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tb.m.mu.Lock()
	defer tb.m.mu.Unlock()
	traj, err := tb.m.trajectoryLocked(tb.id)
	if err != nil {
		return err
	}
	if traj.finished {
		return errors.Errorf("trajectory %d already finished", tb.id)
	}
	if !traj.sensorIDs[data.SensorID] {
		return errors.Errorf("trajectory %d does not accept sensor %q", tb.id, data.SensorID)
	}

	// Dead-reckoned placement so the demo map is not a single point.
	pose := spatialmath.NewPoseFromPoint(r3.Vector{X: float64(len(traj.nodes)) * 0.1})
	worldPoints := make([]r3.Vector, 0, len(data.Points))
	for _, pt := range data.Points {
		worldPoints = append(worldPoints, pose.TransformPoint(pt))
	}
	traj.nodes = append(traj.nodes, cartographer.TrajectoryNode{
		Time:   data.Time,
		Pose:   pose,
		Points: data.Points,
	})

	if len(traj.submaps) == 0 || traj.submaps[len(traj.submaps)-1].version >= nodesPerSubmap {
		traj.submaps = append(traj.submaps, &submap{pose: pose})
	}
	current := traj.submaps[len(traj.submaps)-1]
	current.version++
	current.points = append(current.points, worldPoints...)
	return nil
}
