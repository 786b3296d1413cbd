// Package service adapts the map builder bridge to the robot's messaging
// layer: a request/response surface plus periodic publishers. It contains no
// mapping logic, only translation and boundary error handling.
package service

import (
	"context"

	"github.com/edaniels/golog"
	"go.opencensus.io/trace"

	"github.com/cagrikilic/cartographer-ros/bridge"
	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/occupancygrid"
	"github.com/cagrikilic/cartographer-ros/spatialmath"
)

// Server services point-in-time requests against the bridge.
type Server struct {
	bridge *bridge.MapBuilderBridge
	logger golog.Logger
}

// NewServer returns a server backed by the given bridge.
func NewServer(b *bridge.MapBuilderBridge, logger golog.Logger) *Server {
	return &Server{bridge: b, logger: logger}
}

// SubmapQueryRequest names one submap.
type SubmapQueryRequest struct {
	TrajectoryID cartographer.TrajectoryID
	SubmapIndex  int
}

// SubmapQueryResponse carries one submap's raster content and placement.
type SubmapQueryResponse struct {
	Version    int
	Cells      []byte
	Width      int
	Height     int
	Resolution float64
	SlicePose  spatialmath.Pose
}

// SubmapQuery returns the raster content of a single submap. Failures are
// *bridge.QueryError; the response is never partially populated.
func (s *Server) SubmapQuery(ctx context.Context, req *SubmapQueryRequest) (*SubmapQueryResponse, error) {
	_, span := trace.StartSpan(ctx, "cartographer::service::SubmapQuery")
	defer span.End()

	raster, err := s.bridge.HandleSubmapQuery(req.TrajectoryID, req.SubmapIndex)
	if err != nil {
		s.logger.Errorw("submap query failed", "error", err)
		return nil, err
	}
	return &SubmapQueryResponse{
		Version:    raster.Version,
		Cells:      raster.Cells,
		Width:      raster.Width,
		Height:     raster.Height,
		Resolution: raster.Resolution,
		SlicePose:  raster.SlicePose,
	}, nil
}

// FinishTrajectoryRequest asks for the current trajectory to be retired,
// writing assets under the given stem.
type FinishTrajectoryRequest struct {
	Stem string
}

// FinishTrajectoryResponse reports the id of the newly started trajectory.
type FinishTrajectoryResponse struct {
	TrajectoryID cartographer.TrajectoryID
}

// FinishTrajectory retires the current trajectory, runs a final optimization
// pass, writes assets, and starts a new trajectory.
func (s *Server) FinishTrajectory(ctx context.Context, req *FinishTrajectoryRequest) (*FinishTrajectoryResponse, error) {
	ctx, span := trace.StartSpan(ctx, "cartographer::service::FinishTrajectory")
	defer span.End()

	if err := s.bridge.FinishTrajectory(ctx, req.Stem); err != nil {
		s.logger.Errorw("finish trajectory failed", "error", err)
		return nil, err
	}
	return &FinishTrajectoryResponse{TrajectoryID: s.bridge.CurrentTrajectoryID()}, nil
}

// GetSubmapList returns a consistent snapshot of every trajectory's submaps.
func (s *Server) GetSubmapList(ctx context.Context) (*bridge.SubmapList, error) {
	_, span := trace.StartSpan(ctx, "cartographer::service::GetSubmapList")
	defer span.End()

	list, err := s.bridge.GetSubmapList()
	if err != nil {
		s.logger.Errorw("submap list snapshot failed", "error", err)
		return nil, err
	}
	return list, nil
}

// GetOccupancyGrid returns the occupancy grid for the full map, or nil when
// no trajectory nodes exist yet.
func (s *Server) GetOccupancyGrid(ctx context.Context) (*occupancygrid.Grid, error) {
	_, span := trace.StartSpan(ctx, "cartographer::service::GetOccupancyGrid")
	defer span.End()

	return s.bridge.BuildOccupancyGrid(), nil
}
