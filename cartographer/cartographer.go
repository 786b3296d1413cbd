// Package cartographer defines the boundary to the SLAM backend. The backend
// owns scan matching, submap construction, and pose graph optimization; the
// rest of the system only sees the interfaces and data shapes declared here.
package cartographer

import (
	"context"
	"time"

	"github.com/golang/geo/r3"

	"github.com/cagrikilic/cartographer-ros/spatialmath"
)

// TrajectoryID identifies one continuous data collection session. Ids are
// assigned monotonically by the backend and never reused.
type TrajectoryID int

// SubmapID identifies a single submap within a trajectory.
type SubmapID struct {
	Trajectory TrajectoryID
	Index      int
}

// RangeData is one timed batch of range measurements from a single sensor,
// expressed in the tracking frame.
type RangeData struct {
	SensorID string
	Time     time.Time
	Points   []r3.Vector
}

// TrajectoryNode is one optimized sample point contributing to the global
// map: a pose in the map frame plus the range data observed there.
type TrajectoryNode struct {
	Time   time.Time
	Pose   spatialmath.Pose
	Points []r3.Vector
}

// SubmapRaster is the rendered content of a single submap.
type SubmapRaster struct {
	Version    int
	Cells      []byte
	Width      int
	Height     int
	Resolution float64
	SlicePose  spatialmath.Pose
}

// SubmapEntryData pairs a submap's insertion counter with its optimized
// placement in the map frame.
type SubmapEntryData struct {
	Version int
	Pose    spatialmath.Pose
}

// TrajectoryBuilder ingests sensor data for a single trajectory.
type TrajectoryBuilder interface {
	AddRangeData(ctx context.Context, data RangeData) error
}

// MapBuilder is the opaque SLAM engine. Implementations mutate their pose
// graph concurrently with calls made here; read methods return best-effort
// snapshots and callers must not assume two consecutive reads are atomic
// with respect to each other.
type MapBuilder interface {
	// AddTrajectoryBuilder allocates a new trajectory accepting data from
	// the given sensors and returns its id.
	AddTrajectoryBuilder(sensorIDs []string) (TrajectoryID, error)

	// GetTrajectoryBuilder returns the ingestion path for a trajectory.
	GetTrajectoryBuilder(id TrajectoryID) TrajectoryBuilder

	// FinishTrajectory marks a trajectory as complete. No further sensor
	// data may be routed to it, but it remains part of the map history.
	FinishTrajectory(id TrajectoryID) error

	// SubmapToRaster renders a single submap. Failures carry a
	// human-readable message, e.g. for an unknown trajectory or index.
	SubmapToRaster(id TrajectoryID, submapIndex int) (*SubmapRaster, error)

	// RunFinalOptimization runs a full optimization pass over all
	// accumulated data. May be expensive.
	RunFinalOptimization()

	// GetAllTrajectoryNodes returns the optimized nodes of every
	// trajectory, finished or not.
	GetAllTrajectoryNodes() []TrajectoryNode

	// NumTrajectoryBuilders returns how many trajectories have been
	// allocated so far.
	NumTrajectoryBuilders() int

	// GetSubmapCount returns the number of submaps in a trajectory.
	GetSubmapCount(id TrajectoryID) int

	// GetSubmapData returns version and placement for each submap of a
	// trajectory, in ascending submap index order.
	GetSubmapData(id TrajectoryID) []SubmapEntryData
}
