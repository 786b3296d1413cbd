// Package assets writes the artifacts produced when a trajectory finishes: a
// rendered map image and a trajectory pose log. It consumes only a captured
// node snapshot, never live backend state.
package assets

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/config"
	"github.com/cagrikilic/cartographer-ros/occupancygrid"
)

const slamTimeFormat = "2006-01-02T15:04:05.0000Z"

// Write renders the node snapshot into "<stem>_map.png" and
// "<stem>_trajectory.txt". The stem may include a directory prefix.
func Write(ctx context.Context, nodes []cartographer.TrajectoryNode, opts config.NodeOptions, stem string) error {
	if len(nodes) == 0 {
		return errors.New("refusing to write assets for an empty node snapshot")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := writeMapImage(nodes, opts, stem+"_map.png")
	if ctxErr := ctx.Err(); ctxErr != nil {
		return multierr.Combine(err, ctxErr)
	}
	return multierr.Combine(err, writeTrajectoryLog(nodes, stem+"_trajectory.txt"))
}

func writeMapImage(nodes []cartographer.TrajectoryNode, opts config.NodeOptions, path string) error {
	grid := occupancygrid.Build(nodes, opts)
	img := image.NewGray(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			var v uint8
			switch grid.At(x, y) {
			case occupancygrid.CellOccupied:
				v = 0
			case occupancygrid.CellFree:
				v = 255
			default:
				v = 127
			}
			// Image rows run top to bottom, grid rows bottom to top.
			img.SetGray(x, grid.Height-1-y, color.Gray{Y: v})
		}
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating map image")
	}
	if err := png.Encode(f, img); err != nil {
		return multierr.Combine(errors.Wrap(err, "encoding map image"), f.Close())
	}
	return f.Close()
}

func writeTrajectoryLog(nodes []cartographer.TrajectoryNode, path string) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating trajectory log")
	}
	w := bufio.NewWriter(f)
	for _, node := range nodes {
		t := node.Pose.Translation
		if _, err := fmt.Fprintf(w, "%s %f %f %f %f\n",
			node.Time.UTC().Format(slamTimeFormat), t.X, t.Y, t.Z, node.Pose.Yaw()); err != nil {
			return multierr.Combine(errors.Wrap(err, "writing trajectory log"), f.Close())
		}
	}
	if err := w.Flush(); err != nil {
		return multierr.Combine(err, f.Close())
	}
	return f.Close()
}
