package bridge

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cagrikilic/cartographer-ros/cartographer"
)

// SensorBridge is the ingestion binding for a single trajectory. A new one
// is created each time a trajectory starts; the previous binding keeps
// routing already-accepted messages to the retiring trajectory, the rebind
// is a hard cut for new messages only.
type SensorBridge struct {
	trackingFrame string
	trajectoryID  cartographer.TrajectoryID
	builder       cartographer.TrajectoryBuilder
	sensorIDs     map[string]bool
}

func newSensorBridge(
	trackingFrame string,
	trajectoryID cartographer.TrajectoryID,
	builder cartographer.TrajectoryBuilder,
	sensorIDs []string,
) *SensorBridge {
	idSet := make(map[string]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		idSet[id] = true
	}
	return &SensorBridge{
		trackingFrame: trackingFrame,
		trajectoryID:  trajectoryID,
		builder:       builder,
		sensorIDs:     idSet,
	}
}

// TrajectoryID returns the trajectory this binding routes to.
func (sb *SensorBridge) TrajectoryID() cartographer.TrajectoryID {
	return sb.trajectoryID
}

// HandleRangeData validates and forwards one sensor message to the bound
// trajectory.
func (sb *SensorBridge) HandleRangeData(ctx context.Context, data cartographer.RangeData) error {
	if !sb.sensorIDs[data.SensorID] {
		return errors.Errorf("sensor %q is not expected by trajectory %d", data.SensorID, sb.trajectoryID)
	}
	return sb.builder.AddRangeData(ctx, data)
}
