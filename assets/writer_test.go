package assets_test

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cagrikilic/cartographer-ros/assets"
	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/config"
	"github.com/cagrikilic/cartographer-ros/spatialmath"
)

func TestWriteEmptySnapshot(t *testing.T) {
	err := assets.Write(context.Background(), nil, config.DefaultNodeOptions(), filepath.Join(t.TempDir(), "run"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWrite(t *testing.T) {
	nodes := []cartographer.TrajectoryNode{
		{
			Time:   time.Unix(10, 0),
			Pose:   spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5}),
			Points: []r3.Vector{{X: 1}, {Y: 1}},
		},
		{
			Time:   time.Unix(11, 0),
			Pose:   spatialmath.NewPoseFromPoint(r3.Vector{X: 1.0}),
			Points: []r3.Vector{{X: 1}},
		},
	}
	stem := filepath.Join(t.TempDir(), "run1")
	err := assets.Write(context.Background(), nodes, config.DefaultNodeOptions(), stem)
	test.That(t, err, test.ShouldBeNil)

	f, err := os.Open(stem + "_map.png")
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	img, err := png.Decode(f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds().Dx(), test.ShouldBeGreaterThan, 0)

	logBytes, err := os.ReadFile(stem + "_trajectory.txt")
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(string(logBytes)), "\n")
	test.That(t, lines, test.ShouldHaveLength, 2)
	test.That(t, lines[0], test.ShouldContainSubstring, "0.500000")
	test.That(t, lines[1], test.ShouldContainSubstring, "1.000000")
}

func TestWriteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	nodes := []cartographer.TrajectoryNode{{
		Time: time.Unix(1, 0),
		Pose: spatialmath.NewZeroPose(),
	}}
	err := assets.Write(ctx, nodes, config.DefaultNodeOptions(), filepath.Join(t.TempDir(), "run"))
	test.That(t, err, test.ShouldNotBeNil)
}
