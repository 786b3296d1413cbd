package fake_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/cartographer/fake"
)

func ingest(t *testing.T, tb cartographer.TrajectoryBuilder, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := tb.AddRangeData(context.Background(), cartographer.RangeData{
			SensorID: "lidar",
			Time:     time.Unix(int64(i), 0),
			Points:   []r3.Vector{{X: 1, Y: 1}},
		})
		test.That(t, err, test.ShouldBeNil)
	}
}

func TestTrajectoryAllocation(t *testing.T) {
	m := fake.NewMapBuilder()

	id0, err := m.AddTrajectoryBuilder([]string{"lidar"})
	test.That(t, err, test.ShouldBeNil)
	id1, err := m.AddTrajectoryBuilder([]string{"lidar"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id0, test.ShouldEqual, cartographer.TrajectoryID(0))
	test.That(t, id1, test.ShouldEqual, cartographer.TrajectoryID(1))
	test.That(t, m.NumTrajectoryBuilders(), test.ShouldEqual, 2)

	// Finished trajectories keep their id; new ids keep increasing.
	test.That(t, m.FinishTrajectory(id0), test.ShouldBeNil)
	id2, err := m.AddTrajectoryBuilder([]string{"lidar"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id2, test.ShouldEqual, cartographer.TrajectoryID(2))
}

func TestIngestion(t *testing.T) {
	m := fake.NewMapBuilder()
	id, err := m.AddTrajectoryBuilder([]string{"lidar"})
	test.That(t, err, test.ShouldBeNil)
	tb := m.GetTrajectoryBuilder(id)

	err = tb.AddRangeData(context.Background(), cartographer.RangeData{
		SensorID: "camera",
		Time:     time.Unix(0, 0),
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "does not accept sensor")

	ingest(t, tb, 25)
	test.That(t, m.GetAllTrajectoryNodes(), test.ShouldHaveLength, 25)
	// Submaps roll over every ten nodes: 10 + 10 + 5.
	test.That(t, m.GetSubmapCount(id), test.ShouldEqual, 3)
	data := m.GetSubmapData(id)
	test.That(t, data, test.ShouldHaveLength, 3)
	test.That(t, data[0].Version, test.ShouldEqual, 10)
	test.That(t, data[1].Version, test.ShouldEqual, 10)
	test.That(t, data[2].Version, test.ShouldEqual, 5)

	test.That(t, m.FinishTrajectory(id), test.ShouldBeNil)
	err = tb.AddRangeData(context.Background(), cartographer.RangeData{
		SensorID: "lidar",
		Time:     time.Unix(0, 0),
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already finished")
	test.That(t, m.FinishTrajectory(id), test.ShouldNotBeNil)
}

func TestSubmapToRaster(t *testing.T) {
	m := fake.NewMapBuilder()
	id, err := m.AddTrajectoryBuilder([]string{"lidar"})
	test.That(t, err, test.ShouldBeNil)
	ingest(t, m.GetTrajectoryBuilder(id), 3)

	raster, err := m.SubmapToRaster(id, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raster.Version, test.ShouldEqual, 3)
	test.That(t, raster.Cells, test.ShouldHaveLength, raster.Width*raster.Height)

	_, err = m.SubmapToRaster(id, 7)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "only 1 submaps")

	_, err = m.SubmapToRaster(99, 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown trajectory 99")
}
