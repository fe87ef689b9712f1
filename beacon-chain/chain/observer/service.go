// Package observer materializes, from slot ticks, gossiped attestations and
// imported block tuples, the reactive views a validator depends on: the
// fork-choice head, the observable beacon state at the current wall-clock
// slot, and the pending operations available for block production.
package observer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	eth2types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"

	"github.com/speculalabs/specula/async"
	"github.com/speculalabs/specula/async/event"
	"github.com/speculalabs/specula/beacon-chain/cache"
	"github.com/speculalabs/specula/beacon-chain/chain"
	"github.com/speculalabs/specula/beacon-chain/core/helpers"
	"github.com/speculalabs/specula/beacon-chain/core/transition"
	"github.com/speculalabs/specula/beacon-chain/core/types"
	"github.com/speculalabs/specula/beacon-chain/forkchoice"
	"github.com/speculalabs/specula/shared/params"
)

// aggregationInterval is the period of the buffered-attestation expansion job.
const aggregationInterval = 500 * time.Millisecond

// continuousQueueSize bounds the task queue feeding the continuous worker.
const continuousQueueSize = 1024

// TupleStorage abstracts the block/state tuple store the service reads head
// tuples from and mirrors imported tuples into.
type TupleStorage interface {
	Save(root [32]byte, tuple *chain.BeaconTuple) error
	Tuple(root [32]byte) (*chain.BeaconTuple, bool)
}

// forkchoiceSource is the storage surface the default head function needs.
type forkchoiceSource interface {
	forkchoice.BlockSource
	OriginRoot() ([32]byte, bool)
}

// Config options for the observer service.
type Config struct {
	Storage            TupleStorage
	HeadFn             forkchoice.HeadFunction
	PerSlotTransition  transition.StateTransition
	PerEpochTransition transition.StateTransition

	SlotTicker    <-chan eth2types.Slot
	AttestationCh <-chan *types.Attestation
	BlockTupleCh  <-chan *chain.BeaconTupleDetails
}

// Service consumes the three input streams and publishes head, observable
// state and pending operations on replay-last feeds. Two serial workers do
// the heavy lifting: a fixed-rate job expands buffered attestations and a
// continuous worker runs purge/publish and import/head-update tasks, so all
// writes to head and latest state are linearly ordered.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *Config

	pool      *attestationPool
	details   *cache.TupleDetailsCache
	seen      *cache.SeenAttCache
	projector *stateProjector

	tasks chan func()

	headFeed       *event.Feed
	stateFeed      *event.Feed
	pendingOpsFeed *event.Feed

	stateMu     sync.RWMutex
	head        *chain.BeaconTupleDetails
	headRoot    [32]byte
	latestState *types.BeaconStateEx
	err         error

	startOnce sync.Once
}

// NewService instantiates an observer service.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg.Storage == nil {
		return nil, errors.New("tuple storage is required")
	}
	if cfg.PerSlotTransition == nil || cfg.PerEpochTransition == nil {
		return nil, errors.New("slot and epoch transitions are required")
	}
	details, err := cache.NewTupleDetailsCache()
	if err != nil {
		return nil, err
	}
	seen, err := cache.NewSeenAttCache()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:            ctx,
		cancel:         cancel,
		cfg:            cfg,
		pool:           newAttestationPool(),
		details:        details,
		seen:           seen,
		projector:      newStateProjector(cfg.PerSlotTransition, cfg.PerEpochTransition),
		tasks:          make(chan func(), continuousQueueSize),
		headFeed:       event.NewFeed("observer.head"),
		stateFeed:      event.NewFeed("observer.observableState"),
		pendingOpsFeed: event.NewFeed("observer.pendingOperations"),
	}
	if cfg.HeadFn == nil {
		src, ok := cfg.Storage.(forkchoiceSource)
		if !ok {
			cancel()
			return nil, errors.New("head function required for storage without a block tree view")
		}
		cfg.HeadFn = forkchoice.NewLMDGhost(src, src.OriginRoot, s.headValidators)
	}
	return s, nil
}

// Start wires the input subscriptions and schedules the aggregation job.
// Subsequent calls are no-ops.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		go s.continuousLoop()
		go s.inputLoop()
		// Recover a head from warm storage before the first import arrives.
		s.enqueue(func() {
			if err := s.updateHead(); err != nil && !errors.Is(err, forkchoice.ErrNoBlocks) {
				s.setErr(err)
				log.WithError(err).Error("Could not update head on startup")
			}
		})
		async.RunEvery(s.ctx, aggregationInterval, s.aggregateAttestations)
		log.Info("Started observable state service")
	})
}

// Stop shuts down both workers and completes the output feeds.
func (s *Service) Stop() error {
	s.cancel()
	s.headFeed.Close()
	s.stateFeed.Close()
	s.pendingOpsFeed.Close()
	return nil
}

// Status returns the last fatal consistency error, if any.
func (s *Service) Status() error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.err
}

// HeadFeed publishes a chain.BeaconChainHead whenever the head changes.
func (s *Service) HeadFeed() *event.Feed {
	return s.headFeed
}

// StateFeed publishes a chain.ObservableBeaconState on every slot tick and
// head change.
func (s *Service) StateFeed() *event.Feed {
	return s.stateFeed
}

// PendingOpsFeed publishes the pending operations snapshot taken at each
// publication.
func (s *Service) PendingOpsFeed() *event.Feed {
	return s.pendingOpsFeed
}

// inputLoop receives from the three input channels. Handlers only buffer a
// value or enqueue a task; all heavy work happens on the workers.
func (s *Service) inputLoop() {
	for {
		select {
		case slot, ok := <-s.cfg.SlotTicker:
			if !ok {
				return
			}
			s.onNewSlot(slot)
		case att, ok := <-s.cfg.AttestationCh:
			if !ok {
				return
			}
			s.onAttestation(att)
		case td, ok := <-s.cfg.BlockTupleCh:
			if !ok {
				return
			}
			s.onBlockTuple(td)
		case <-s.ctx.Done():
			return
		}
	}
}

// continuousLoop executes purge/publish and import/head-update tasks one at
// a time in submission order.
func (s *Service) continuousLoop() {
	for {
		select {
		case task := <-s.tasks:
			task()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) enqueue(task func()) {
	select {
	case s.tasks <- task:
	case <-s.ctx.Done():
	}
}

func (s *Service) onAttestation(att *types.Attestation) {
	if att == nil || att.Data == nil {
		return
	}
	if s.seen.Seen(att) {
		attsDuplicatesTotal.Inc()
		return
	}
	s.pool.offer(att)
}

func (s *Service) onNewSlot(slot eth2types.Slot) {
	s.enqueue(func() {
		s.tickSlot(slot)
	})
}

func (s *Service) onBlockTuple(td *chain.BeaconTupleDetails) {
	if td == nil || td.Block == nil {
		return
	}
	root, err := td.Block.HashTreeRoot()
	if err != nil {
		log.WithError(err).Error("Could not hash imported block")
		return
	}
	s.details.Put(root, td)
	s.enqueue(func() {
		s.importTuple(root, td)
	})
}

// tickSlot purges expired attestations and publishes the observable state
// for the new wall-clock slot. Runs on the continuous worker.
func (s *Service) tickSlot(slot eth2types.Slot) {
	cfg := params.BeaconConfig()
	// Attestations are includable only while
	// attestation.slot > state.slot - MIN_ATTESTATION_INCLUSION_DELAY - SLOTS_PER_EPOCH,
	// so everything at or below that horizon is dropped on every tick.
	horizon := cfg.SlotsPerEpoch + cfg.MinAttestationInclusionDelay
	if uint64(slot) >= horizon {
		purged := s.pool.purge(slot - eth2types.Slot(horizon))
		attsPurgedTotal.Add(float64(purged))
	}
	s.processSlot(slot)
}

// importTuple mirrors an imported tuple into storage, drops its on-chain
// attestations from the pool and re-runs the fork choice. Runs on the
// continuous worker.
func (s *Service) importTuple(root [32]byte, td *chain.BeaconTupleDetails) {
	if err := s.cfg.Storage.Save(root, &td.BeaconTuple); err != nil {
		log.WithError(err).Error("Could not store imported tuple")
		return
	}
	s.removeIncludedAttestations(td.State)
	if err := s.updateHead(); err != nil {
		s.setErr(err)
		log.WithError(err).Error("Could not update head")
	}
}

// processSlot publishes the observable state for a wall-clock slot. Runs on
// the continuous worker.
func (s *Service) processSlot(slot eth2types.Slot) {
	head := s.headTuple()
	if head == nil {
		log.WithField("slot", slot).Debug("No chain head yet, skipping state publication")
		return
	}
	if head.Block.Slot > slot {
		return
	}
	if err := s.publish(head, slot); err != nil {
		log.WithError(err).WithField("slot", slot).Error("Could not publish observable state")
	}
}

// removeIncludedAttestations drops from the pool every (validator, slot)
// pair already recorded in the imported block's post state: once on chain,
// an attestation is no longer pending.
func (s *Service) removeIncludedAttestations(stateEx *types.BeaconStateEx) {
	state := stateEx.State
	for _, pending := range state.LatestAttestations {
		participants, err := helpers.AttestationParticipants(state, pending.Data, pending.AggregationBits)
		if err != nil {
			log.WithError(err).WithField("slot", pending.Data.Slot).Debug("Skipping included attestation")
			continue
		}
		for _, pubkey := range helpers.IndicesToPubkeys(state, participants) {
			s.pool.forget(pubkey, pending.Data.Slot)
		}
	}
}

// updateHead runs the fork choice over a snapshot of pending attestations
// and publishes the new head if it changed. Runs on the continuous worker.
func (s *Service) updateHead() error {
	_, span := trace.StartSpan(s.ctx, "observer.updateHead")
	defer span.End()

	ops := s.pool.snapshot()
	resolve := func(v *types.Validator) (*types.Attestation, bool) {
		return ops.LatestAttestation(v.Pubkey)
	}
	newHead, err := s.cfg.HeadFn.Head(resolve)
	if err != nil {
		return errors.Wrap(err, "could not run fork choice")
	}
	root, err := newHead.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash head block")
	}
	if s.headTuple() != nil && s.currentHeadRoot() == root {
		return nil
	}
	td, ok := s.details.Get(root)
	if !ok {
		tuple, ok := s.cfg.Storage.Tuple(root)
		if !ok {
			return errors.Wrapf(ErrHeadTupleMissing, "block %#x", root)
		}
		td = chain.NewBeaconTupleDetails(tuple)
	}
	s.newHead(td, root)
	return nil
}

// newHead records and publishes the head, then republishes the observable
// state when the already-projected state still extends the new head.
func (s *Service) newHead(td *chain.BeaconTupleDetails, root [32]byte) {
	s.setHead(td, root)
	headUpdatesTotal.Inc()
	headSlotGauge.Set(float64(td.Block.Slot))
	s.headFeed.Send(chain.NewBeaconChainHead(td))

	latest := s.latestStateEx()
	if latest == nil || td.Block.Slot > latest.Slot() {
		return
	}
	if err := s.publish(td, latest.Slot()); err != nil {
		log.WithError(err).Error("Could not publish observable state for new head")
	}
}

// publish emits the observable state(s) for the head at the given slot. The
// pending-operations snapshot is taken once and shared by every emission of
// this invocation.
func (s *Service) publish(head *chain.BeaconTupleDetails, slot eth2types.Slot) error {
	_, span := trace.StartSpan(s.ctx, "observer.publish")
	defer span.End()

	if slot < head.Block.Slot {
		return errors.Wrapf(errStalePublish, "slot %d, head slot %d", slot, head.Block.Slot)
	}
	ops := s.pool.snapshot()

	if slot > head.Block.Slot {
		projected, err := s.projector.Project(head.FinalState(), slot)
		if err != nil {
			return errors.Wrap(err, "could not project state")
		}
		epochState, err := s.projector.ProjectEpochIfNeeded(head.FinalState(), projected)
		if err != nil {
			return errors.Wrap(err, "could not apply boundary epoch transition")
		}

		s.pendingOpsFeed.Send(ops)
		s.setLatestState(projected)
		s.emitState(head.Block, projected, ops)
		if epochState != nil {
			s.setLatestState(epochState)
			s.emitState(head.Block, epochState, ops)
		}
		return nil
	}

	// Same slot: replay, in order, each of the importer's intermediate states
	// that is present; fall back to the tuple's final state when none is.
	s.pendingOpsFeed.Send(ops)
	if head.PostSlotState != nil {
		s.setLatestState(head.PostSlotState)
		s.emitState(head.Block, head.PostSlotState, ops)
	}
	if head.PostBlockState != nil {
		s.setLatestState(head.PostBlockState)
		s.emitState(head.Block, head.PostBlockState, ops)
	}
	if head.PostEpochState != nil {
		s.setLatestState(head.PostEpochState)
		s.emitState(head.Block, head.PostEpochState, ops)
	}
	if head.PostSlotState == nil && head.PostBlockState == nil && head.PostEpochState == nil {
		s.setLatestState(head.FinalState())
		s.emitState(head.Block, head.FinalState(), ops)
	}
	return nil
}

func (s *Service) emitState(block *types.BeaconBlock, state *types.BeaconStateEx, ops chain.PendingOperations) {
	stateEmissionsTotal.Inc()
	s.stateFeed.Send(chain.NewObservableBeaconState(block, state, ops))
}

// aggregateAttestations drains buffered attestations at or below the latest
// state's slot and records each participant's latest attestation. Runs every
// aggregationInterval; self-throttles until a state exists, since expanding
// an aggregate requires a validator registry.
func (s *Service) aggregateAttestations() {
	state := s.latestStateEx()
	if state == nil {
		return
	}
	_, span := trace.StartSpan(s.ctx, "observer.aggregateAttestations")
	defer span.End()

	for _, att := range s.pool.drainUpTo(state.Slot()) {
		participants, err := helpers.AttestationParticipants(state.State, att.Data, att.AggregationBits)
		if err != nil {
			log.WithError(err).WithField("slot", att.Data.Slot).Debug("Skipping attestation")
			continue
		}
		for _, pubkey := range helpers.IndicesToPubkeys(state.State, participants) {
			s.pool.ingestLatest(pubkey, att)
		}
	}
}

// headValidators supplies the registry the default fork choice counts votes
// over: the head state's validators, or none before the first import.
func (s *Service) headValidators() []*types.Validator {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.head != nil {
		return s.head.State.State.Validators
	}
	if s.latestState != nil {
		return s.latestState.State.Validators
	}
	return nil
}

func (s *Service) headTuple() *chain.BeaconTupleDetails {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.head
}

func (s *Service) currentHeadRoot() [32]byte {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.headRoot
}

func (s *Service) latestStateEx() *types.BeaconStateEx {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.latestState
}

func (s *Service) setHead(td *chain.BeaconTupleDetails, root [32]byte) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.head = td
	s.headRoot = root
}

func (s *Service) setLatestState(state *types.BeaconStateEx) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.latestState = state
}

func (s *Service) setErr(err error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.err = err
}
