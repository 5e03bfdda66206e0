// Package asset implements the asset subsystem's agent: it drives the
// load lane against pending requests and background-retries failures on
// a cron schedule, bounding how many retries it carries at once with a
// ring buffer so a persistently-failing asset can't grow the retry queue
// without limit.
package asset

import (
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/assets"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
	"github.com/khora-engine/khora/internal/ringbuf"
	"github.com/khora-engine/khora/lane"
	"github.com/khora-engine/khora/lanes/assetlane"
)

const maxPendingRetries = 64

type Agent struct {
	log             zerolog.Logger
	lane            *assetlane.LoadLane
	cron            *cron.Cron
	retries         *ringbuf.Buffer[uuid.UUID]
	currentStrategy gorna.StrategyID
	lastLoaded      int
	lastFailed      int
}

// New builds an asset agent. retrySchedule is a standard cron expression
// (e.g. "*/10 * * * * *" with the seconds-field parser) controlling how
// often queued retries are re-attempted in the background; the returned
// cron.Cron is started immediately and must be stopped via Stop.
func New(log zerolog.Logger, index *assets.Index, pack *assets.Pack, assetRoot string, retrySchedule string) (*Agent, error) {
	a := &Agent{
		log:             log.With().Str("agent", "asset").Logger(),
		lane:            assetlane.NewLoadLane(index, pack, assetRoot),
		cron:            cron.New(cron.WithSeconds()),
		retries:         ringbuf.New[uuid.UUID](maxPendingRetries),
		currentStrategy: gorna.StrategyID{Kind: gorna.StrategyBalanced},
	}
	if _, err := a.cron.AddFunc(retrySchedule, a.retryPending); err != nil {
		return nil, err
	}
	a.cron.Start()
	return a, nil
}

func (a *Agent) ID() agent.ID { return agent.Asset }

func (a *Agent) Negotiate(req gorna.NegotiationRequest) gorna.NegotiationResponse {
	return gorna.NegotiationResponse{
		Strategies: []gorna.StrategyOption{
			{ID: gorna.StrategyID{Kind: gorna.StrategyBalanced}, EstimatedTime: 5 * time.Millisecond},
		},
	}
}

func (a *Agent) ApplyBudget(budget gorna.ResourceBudget) {
	a.currentStrategy = budget.StrategyID
}

func (a *Agent) Update(ctx *ectx.EngineContext) error { return nil }

// Execute drains whatever ids were queued for retry since the last tick
// through the load lane; Request lets an external caller (not modelled
// here, since asset *requests* originate outside this module's scope)
// enqueue new ids for the next tick.
func (a *Agent) Execute(ctx *ectx.EngineContext) error {
	ids := a.drainRetries()
	if len(ids) == 0 {
		return nil
	}
	laneCtx := lane.NewContext()
	laneCtx.Set(assetlane.LoadRequest{IDs: ids})
	results, err := a.lane.Run(laneCtx, ctx.World)
	if err != nil {
		return err
	}
	loaded, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			a.retries.Push(r.ID)
			continue
		}
		loaded++
	}
	a.lastLoaded, a.lastFailed = loaded, failed
	a.log.Debug().Int("loaded", loaded).Int("failed", failed).Msg("asset pass complete")
	return nil
}

// Request enqueues an asset id to be attempted on the next Execute (or
// the next cron-scheduled retry, if Execute isn't ticking).
func (a *Agent) Request(id uuid.UUID) {
	a.retries.Push(id)
}

func (a *Agent) drainRetries() []uuid.UUID {
	var ids []uuid.UUID
	for {
		id, ok := a.retries.Pop()
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

// retryPending is the cron callback: it simply leaves queued retries for
// the next Execute to drain, giving a periodic wakeup for a process whose
// tick loop may not otherwise be running continuously (e.g. paused in
// the background).
func (a *Agent) retryPending() {
	a.log.Trace().Int("pending", a.retries.Len()).Msg("asset retry tick")
}

func (a *Agent) Stop() {
	a.cron.Stop()
}

func (a *Agent) ReportStatus() gorna.AgentStatus {
	health := 1.0
	if a.lastFailed > 0 {
		health = 0.5
	}
	return gorna.AgentStatus{
		AgentID:         a.ID().String(),
		CurrentStrategy: a.currentStrategy,
		HealthScore:     health,
		IsStalled:       false,
	}
}
