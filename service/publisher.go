package service

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"

	"github.com/cagrikilic/cartographer-ros/bridge"
	"github.com/cagrikilic/cartographer-ros/occupancygrid"
)

const (
	defaultSubmapListInterval    = 300 * time.Millisecond
	defaultOccupancyGridInterval = time.Second
)

// SubmapListSubscriber receives submap list snapshots.
type SubmapListSubscriber func(list *bridge.SubmapList)

// OccupancyGridSubscriber receives occupancy grid snapshots.
type OccupancyGridSubscriber func(grid *occupancygrid.Grid)

// PublisherParams configures a Publisher. Zero intervals get defaults; a nil
// clock gets the real one.
type PublisherParams struct {
	Clock                 clock.Clock
	SubmapListInterval    time.Duration
	OccupancyGridInterval time.Duration
}

// Publisher periodically pushes submap list and occupancy grid snapshots to
// registered subscribers, the publish side of the messaging layer.
type Publisher struct {
	bridge *bridge.MapBuilderBridge
	logger golog.Logger
	clock  clock.Clock

	submapListInterval    time.Duration
	occupancyGridInterval time.Duration

	subMu          sync.Mutex
	submapListSubs []SubmapListSubscriber
	gridSubs       []OccupancyGridSubscriber

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewPublisher returns a stopped publisher; call Start to begin publishing.
func NewPublisher(b *bridge.MapBuilderBridge, logger golog.Logger, params PublisherParams) *Publisher {
	if params.Clock == nil {
		params.Clock = clock.New()
	}
	if params.SubmapListInterval == 0 {
		params.SubmapListInterval = defaultSubmapListInterval
	}
	if params.OccupancyGridInterval == 0 {
		params.OccupancyGridInterval = defaultOccupancyGridInterval
	}
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	return &Publisher{
		bridge:                b,
		logger:                logger,
		clock:                 params.Clock,
		submapListInterval:    params.SubmapListInterval,
		occupancyGridInterval: params.OccupancyGridInterval,
		cancelCtx:             cancelCtx,
		cancelFunc:            cancelFunc,
	}
}

// SubscribeSubmapList registers a submap list callback. Callbacks run on the
// publisher's goroutine and should return quickly.
func (p *Publisher) SubscribeSubmapList(fn SubmapListSubscriber) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.submapListSubs = append(p.submapListSubs, fn)
}

// SubscribeOccupancyGrid registers an occupancy grid callback.
func (p *Publisher) SubscribeOccupancyGrid(fn OccupancyGridSubscriber) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.gridSubs = append(p.gridSubs, fn)
}

// Start launches the publishing loops.
func (p *Publisher) Start() {
	p.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(p.publishSubmapListLoop, p.activeBackgroundWorkers.Done)
	p.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(p.publishOccupancyGridLoop, p.activeBackgroundWorkers.Done)
}

// Close stops the publishing loops and waits for them to exit.
func (p *Publisher) Close() {
	p.cancelFunc()
	p.activeBackgroundWorkers.Wait()
}

func (p *Publisher) publishSubmapListLoop() {
	ticker := p.clock.Ticker(p.submapListInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.cancelCtx.Done():
			return
		case <-ticker.C:
		}
		p.subMu.Lock()
		subs := make([]SubmapListSubscriber, len(p.submapListSubs))
		copy(subs, p.submapListSubs)
		p.subMu.Unlock()
		if len(subs) == 0 {
			continue
		}
		list, err := p.bridge.GetSubmapList()
		if err != nil {
			p.logger.Errorw("skipping submap list publication", "error", err)
			continue
		}
		for _, fn := range subs {
			fn(list)
		}
	}
}

func (p *Publisher) publishOccupancyGridLoop() {
	ticker := p.clock.Ticker(p.occupancyGridInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.cancelCtx.Done():
			return
		case <-ticker.C:
		}
		p.subMu.Lock()
		subs := make([]OccupancyGridSubscriber, len(p.gridSubs))
		copy(subs, p.gridSubs)
		p.subMu.Unlock()
		if len(subs) == 0 {
			// Rasterization is not cheap; skip it with nobody listening.
			continue
		}
		grid := p.bridge.BuildOccupancyGrid()
		if grid == nil {
			continue
		}
		for _, fn := range subs {
			fn(grid)
		}
	}
}
