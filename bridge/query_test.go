package bridge_test

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/cagrikilic/cartographer-ros/bridge"
	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/spatialmath"
	"github.com/cagrikilic/cartographer-ros/testutils/inject"
)

func TestHandleSubmapQuery(t *testing.T) {
	raster := &cartographer.SubmapRaster{
		Version:    9,
		Cells:      []byte{1, 2, 3, 4},
		Width:      2,
		Height:     2,
		Resolution: 0.05,
		SlicePose:  spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2}),
	}
	injectMapBuilder := &inject.MapBuilder{
		SubmapToRasterFunc: func(id cartographer.TrajectoryID, submapIndex int) (*cartographer.SubmapRaster, error) {
			if id != 0 || submapIndex != 1 {
				return nil, errors.Errorf("unknown trajectory %d", id)
			}
			return raster, nil
		},
	}
	b := newSnapshotBridge(t, injectMapBuilder, clock.NewMock(), nil)

	got, err := b.HandleSubmapQuery(0, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, raster)

	// The backend's message survives the translation into a typed error and
	// no partial raster is returned.
	got, err = b.HandleSubmapQuery(5, 2)
	test.That(t, got, test.ShouldBeNil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, bridge.IsQueryError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown trajectory 5")
	test.That(t, bridge.IsConsistencyError(err), test.ShouldBeFalse)
}
