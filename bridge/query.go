package bridge

import (
	"github.com/cagrikilic/cartographer-ros/cartographer"
)

// HandleSubmapQuery renders a single submap. Backend failures, which arrive
// as plain messages, are translated into a typed QueryError at this
// boundary; a failed query never yields a partially populated raster.
func (b *MapBuilderBridge) HandleSubmapQuery(
	trajectoryID cartographer.TrajectoryID,
	submapIndex int,
) (*cartographer.SubmapRaster, error) {
	raster, err := b.mapBuilder.SubmapToRaster(trajectoryID, submapIndex)
	if err != nil {
		return nil, &QueryError{
			Trajectory: trajectoryID,
			Index:      submapIndex,
			Message:    err.Error(),
		}
	}
	return raster, nil
}
