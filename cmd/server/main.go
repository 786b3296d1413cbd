// Package main runs the bridge against the in-memory fake backend with a
// synthetic lidar source, for demos and manual testing.
package main

import (
	"context"
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	goutils "go.viam.com/utils"

	"github.com/cagrikilic/cartographer-ros/bridge"
	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/cartographer/fake"
	"github.com/cagrikilic/cartographer-ros/config"
	"github.com/cagrikilic/cartographer-ros/service"
)

var logger = golog.NewDevelopmentLogger("cartographer_bridge")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	SensorID   string  `flag:"sensor,default=lidar,usage=sensor id to ingest as"`
	RateMs     int     `flag:"rate-ms,default=200,usage=synthetic scan period in milliseconds"`
	Resolution float64 `flag:"resolution,default=0.05,usage=occupancy grid resolution in meters"`
	FinishSec  int     `flag:"finish-sec,default=0,usage=finish the trajectory after this many seconds (0 to disable)"`
	Stem       string  `flag:"stem,default=run,usage=asset file stem used when finishing"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	opts := config.DefaultNodeOptions()
	opts.Resolution = argsParsed.Resolution

	b, err := bridge.New(bridge.Params{
		Options:    opts,
		MapBuilder: fake.NewMapBuilder(),
		SensorIDs:  []string{argsParsed.SensorID},
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	server := service.NewServer(b, logger)
	publisher := service.NewPublisher(b, logger, service.PublisherParams{})
	publisher.SubscribeSubmapList(func(list *bridge.SubmapList) {
		total := 0
		for _, traj := range list.Trajectories {
			total += len(traj.Submaps)
		}
		logger.Infow("submap list",
			"trajectories", len(list.Trajectories),
			"submaps", total,
			"current", b.CurrentTrajectoryID())
	})
	publisher.Start()
	defer publisher.Close()

	if argsParsed.FinishSec > 0 {
		goutils.PanicCapturingGo(func() {
			if !goutils.SelectContextOrWait(ctx, time.Duration(argsParsed.FinishSec)*time.Second) {
				return
			}
			resp, err := server.FinishTrajectory(ctx, &service.FinishTrajectoryRequest{Stem: argsParsed.Stem})
			if err != nil {
				logger.Errorw("finish trajectory", "error", err)
				return
			}
			logger.Infow("trajectory finished", "new_trajectory", resp.TrajectoryID)
		})
	}

	for {
		if !goutils.SelectContextOrWait(ctx, time.Duration(argsParsed.RateMs)*time.Millisecond) {
			break
		}
		if err := b.HandleRangeData(ctx, syntheticScan(argsParsed.SensorID)); err != nil {
			logger.Errorw("ingesting scan", "error", err)
		}
	}

	return b.Close(ctx)
}

// syntheticScan fakes a lidar sweep of a circular room.
func syntheticScan(sensorID string) cartographer.RangeData {
	const beams = 90
	const radius = 2.0
	points := make([]r3.Vector, 0, beams)
	for i := 0; i < beams; i++ {
		angle := 2 * math.Pi * float64(i) / beams
		points = append(points, r3.Vector{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		})
	}
	return cartographer.RangeData{
		SensorID: sensorID,
		Time:     time.Now(),
		Points:   points,
	}
}
