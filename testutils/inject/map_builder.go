// Package inject provides fakes with injectable function fields, for use in
// tests that need to control the SLAM backend's behavior call by call.
package inject

import (
	"context"

	"github.com/cagrikilic/cartographer-ros/cartographer"
)

// MapBuilder is a fake instance of a cartographer.MapBuilder. Calls delegate
// to the injected funcs, or to the embedded MapBuilder when unset.
type MapBuilder struct {
	cartographer.MapBuilder
	AddTrajectoryBuilderFunc  func(sensorIDs []string) (cartographer.TrajectoryID, error)
	GetTrajectoryBuilderFunc  func(id cartographer.TrajectoryID) cartographer.TrajectoryBuilder
	FinishTrajectoryFunc      func(id cartographer.TrajectoryID) error
	SubmapToRasterFunc        func(id cartographer.TrajectoryID, submapIndex int) (*cartographer.SubmapRaster, error)
	RunFinalOptimizationFunc  func()
	GetAllTrajectoryNodesFunc func() []cartographer.TrajectoryNode
	NumTrajectoryBuildersFunc func() int
	GetSubmapCountFunc        func(id cartographer.TrajectoryID) int
	GetSubmapDataFunc         func(id cartographer.TrajectoryID) []cartographer.SubmapEntryData
}

// AddTrajectoryBuilder calls the injected func or the real version.
func (m *MapBuilder) AddTrajectoryBuilder(sensorIDs []string) (cartographer.TrajectoryID, error) {
	if m.AddTrajectoryBuilderFunc == nil {
		return m.MapBuilder.AddTrajectoryBuilder(sensorIDs)
	}
	return m.AddTrajectoryBuilderFunc(sensorIDs)
}

// GetTrajectoryBuilder calls the injected func or the real version.
func (m *MapBuilder) GetTrajectoryBuilder(id cartographer.TrajectoryID) cartographer.TrajectoryBuilder {
	if m.GetTrajectoryBuilderFunc == nil {
		return m.MapBuilder.GetTrajectoryBuilder(id)
	}
	return m.GetTrajectoryBuilderFunc(id)
}

// FinishTrajectory calls the injected func or the real version.
func (m *MapBuilder) FinishTrajectory(id cartographer.TrajectoryID) error {
	if m.FinishTrajectoryFunc == nil {
		return m.MapBuilder.FinishTrajectory(id)
	}
	return m.FinishTrajectoryFunc(id)
}

// SubmapToRaster calls the injected func or the real version.
func (m *MapBuilder) SubmapToRaster(
	id cartographer.TrajectoryID,
	submapIndex int,
) (*cartographer.SubmapRaster, error) {
	if m.SubmapToRasterFunc == nil {
		return m.MapBuilder.SubmapToRaster(id, submapIndex)
	}
	return m.SubmapToRasterFunc(id, submapIndex)
}

// RunFinalOptimization calls the injected func or the real version.
func (m *MapBuilder) RunFinalOptimization() {
	if m.RunFinalOptimizationFunc == nil {
		m.MapBuilder.RunFinalOptimization()
		return
	}
	m.RunFinalOptimizationFunc()
}

// GetAllTrajectoryNodes calls the injected func or the real version.
func (m *MapBuilder) GetAllTrajectoryNodes() []cartographer.TrajectoryNode {
	if m.GetAllTrajectoryNodesFunc == nil {
		return m.MapBuilder.GetAllTrajectoryNodes()
	}
	return m.GetAllTrajectoryNodesFunc()
}

// NumTrajectoryBuilders calls the injected func or the real version.
func (m *MapBuilder) NumTrajectoryBuilders() int {
	if m.NumTrajectoryBuildersFunc == nil {
		return m.MapBuilder.NumTrajectoryBuilders()
	}
	return m.NumTrajectoryBuildersFunc()
}

// GetSubmapCount calls the injected func or the real version.
func (m *MapBuilder) GetSubmapCount(id cartographer.TrajectoryID) int {
	if m.GetSubmapCountFunc == nil {
		return m.MapBuilder.GetSubmapCount(id)
	}
	return m.GetSubmapCountFunc(id)
}

// GetSubmapData calls the injected func or the real version.
func (m *MapBuilder) GetSubmapData(id cartographer.TrajectoryID) []cartographer.SubmapEntryData {
	if m.GetSubmapDataFunc == nil {
		return m.MapBuilder.GetSubmapData(id)
	}
	return m.GetSubmapDataFunc(id)
}

// TrajectoryBuilder is a fake instance of a cartographer.TrajectoryBuilder.
type TrajectoryBuilder struct {
	cartographer.TrajectoryBuilder
	AddRangeDataFunc func(ctx context.Context, data cartographer.RangeData) error
}

// AddRangeData calls the injected func or the real version.
func (tb *TrajectoryBuilder) AddRangeData(ctx context.Context, data cartographer.RangeData) error {
	if tb.AddRangeDataFunc == nil {
		return tb.TrajectoryBuilder.AddRangeData(ctx, data)
	}
	return tb.AddRangeDataFunc(ctx, data)
}
