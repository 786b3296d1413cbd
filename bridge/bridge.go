// Package bridge connects a continuously running SLAM backend to the
// surrounding robot software. It owns trajectory identity and lifecycle,
// assembles externally consumable map snapshots, and answers point-in-time
// submap queries while the backend keeps mutating its pose graph.
package bridge

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/cagrikilic/cartographer-ros/assets"
	"github.com/cagrikilic/cartographer-ros/cartographer"
	"github.com/cagrikilic/cartographer-ros/config"
	"github.com/cagrikilic/cartographer-ros/occupancygrid"
)

// AssetWriterFunc persists a captured node snapshot under the given stem.
type AssetWriterFunc func(
	ctx context.Context,
	nodes []cartographer.TrajectoryNode,
	opts config.NodeOptions,
	stem string,
) error

// GridBuilderFunc rasterizes a captured node snapshot.
type GridBuilderFunc func(nodes []cartographer.TrajectoryNode, opts config.NodeOptions) *occupancygrid.Grid

// Params configures a MapBuilderBridge. Clock, WriteAssets, and BuildGrid
// are optional and default to the real implementations.
type Params struct {
	Options     config.NodeOptions
	MapBuilder  cartographer.MapBuilder
	SensorIDs   []string
	Logger      golog.Logger
	Clock       clock.Clock
	WriteAssets AssetWriterFunc
	BuildGrid   GridBuilderFunc
}

// MapBuilderBridge is the single owner of the trajectory registry. Exactly
// one trajectory is current at any time; sensor ingestion, read-only
// snapshot requests, and finish-trajectory transitions may all run
// concurrently.
type MapBuilderBridge struct {
	opts        config.NodeOptions
	mapBuilder  cartographer.MapBuilder
	sensorIDs   []string
	logger      golog.Logger
	clock       clock.Clock
	writeAssets AssetWriterFunc
	buildGrid   GridBuilderFunc

	// transitionMu serializes finish-trajectory transitions; the state
	// machine is RUNNING whenever it is free and TRANSITIONING while held.
	transitionMu sync.Mutex

	// mu guards the current-trajectory cell. Readers snapshot {id, binding}
	// under a short read lock; only the transition swaps it.
	mu           sync.RWMutex
	trajectoryID cartographer.TrajectoryID
	sensorBridge *SensorBridge
}

// New allocates the initial trajectory and binds sensor ingestion to it.
func New(p Params) (*MapBuilderBridge, error) {
	if p.MapBuilder == nil {
		return nil, errors.New("map builder must be provided")
	}
	if p.Logger == nil {
		return nil, errors.New("logger must be provided")
	}
	if len(p.SensorIDs) == 0 {
		return nil, errors.New("at least one sensor id must be provided")
	}
	if err := p.Options.Validate(); err != nil {
		return nil, err
	}
	if p.Clock == nil {
		p.Clock = clock.New()
	}
	if p.WriteAssets == nil {
		p.WriteAssets = assets.Write
	}
	if p.BuildGrid == nil {
		p.BuildGrid = occupancygrid.Build
	}
	b := &MapBuilderBridge{
		opts:        p.Options,
		mapBuilder:  p.MapBuilder,
		sensorIDs:   p.SensorIDs,
		logger:      p.Logger,
		clock:       p.Clock,
		writeAssets: p.WriteAssets,
		buildGrid:   p.BuildGrid,
	}
	if err := b.startTrajectoryLocked(); err != nil {
		return nil, err
	}
	return b, nil
}

// CurrentTrajectoryID returns the id of the trajectory currently accepting
// sensor data.
func (b *MapBuilderBridge) CurrentTrajectoryID() cartographer.TrajectoryID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trajectoryID
}

// SensorBridge returns the current ingestion binding. The binding stays
// valid for messages already handed to it even after a trajectory swap; new
// messages should go through HandleRangeData instead so they always reach
// the current trajectory.
func (b *MapBuilderBridge) SensorBridge() *SensorBridge {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sensorBridge
}

// HandleRangeData routes one sensor message to the current trajectory. The
// read lock is held across the forward, so a concurrent trajectory swap
// observes either the message fully delivered to the old trajectory or not
// yet accepted.
func (b *MapBuilderBridge) HandleRangeData(ctx context.Context, data cartographer.RangeData) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sensorBridge.HandleRangeData(ctx, data)
}

// startTrajectoryLocked allocates a new trajectory and publishes the new
// {id, binding} pair. Callers must hold mu exclusively, except from New
// where the bridge is not yet shared.
func (b *MapBuilderBridge) startTrajectoryLocked() error {
	id, err := b.mapBuilder.AddTrajectoryBuilder(b.sensorIDs)
	if err != nil {
		return errors.Wrap(err, "allocating trajectory")
	}
	b.trajectoryID = id
	b.sensorBridge = newSensorBridge(b.opts.TrackingFrame, id, b.mapBuilder.GetTrajectoryBuilder(id), b.sensorIDs)
	return nil
}

// FinishTrajectory retires the current trajectory and starts a new one. The
// new trajectory is registered and bound before the previous one is retired,
// so there is no window in which sensor data has nowhere to go. The final
// optimization and asset writing run outside the swap lock on a captured
// node snapshot.
func (b *MapBuilderBridge) FinishTrajectory(ctx context.Context, stem string) error {
	b.transitionMu.Lock()
	defer b.transitionMu.Unlock()

	b.logger.Info("finishing trajectory")

	b.mu.Lock()
	previousID := b.trajectoryID
	if err := b.startTrajectoryLocked(); err != nil {
		b.mu.Unlock()
		return &TransitionError{Previous: previousID, cause: err}
	}
	newID := b.trajectoryID
	b.mu.Unlock()

	if err := b.mapBuilder.FinishTrajectory(previousID); err != nil {
		return &TransitionError{Previous: previousID, cause: err}
	}
	b.mapBuilder.RunFinalOptimization()

	nodes := b.mapBuilder.GetAllTrajectoryNodes()
	if len(nodes) == 0 {
		b.logger.Warn("no data collected and no assets will be written")
	} else {
		b.logger.Infow("writing assets", "stem", stem, "nodes", len(nodes))
		if err := b.writeAssets(ctx, nodes, b.opts, stem); err != nil {
			return errors.Wrapf(err, "writing assets for stem %q", stem)
		}
	}
	b.logger.Infow("new trajectory started", "id", newID)
	return nil
}

// Close finishes the current trajectory in the backend without starting a
// replacement.
func (b *MapBuilderBridge) Close(ctx context.Context) error {
	b.transitionMu.Lock()
	defer b.transitionMu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mapBuilder.FinishTrajectory(b.trajectoryID)
}
