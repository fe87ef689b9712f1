package observer

import (
	"sort"
	"sync"

	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// attKey identifies a latest-attestation cache entry. Keying by slot as well
// as pubkey means a validator holds one entry per attested slot; freshness
// within a slot is last write wins.
type attKey struct {
	pubkey types.BLSPubkey
	slot   eth2types.Slot
}

type poolEntry struct {
	att *types.Attestation
	seq uint64
}

// attestationPool buffers gossip attestations until a state is available to
// expand their participants, and caches the latest attestation per
// (validator, slot). One mutex guards both containers; no operation holds it
// across an external call.
type attestationPool struct {
	mu     sync.Mutex
	buffer []*types.Attestation
	latest map[attKey]*poolEntry
	seq    uint64
}

func newAttestationPool() *attestationPool {
	return &attestationPool{
		latest: make(map[attKey]*poolEntry),
	}
}

// offer appends an attestation to the buffer.
func (p *attestationPool) offer(att *types.Attestation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer = append(p.buffer, att)
}

// drainUpTo removes and returns, in insertion order, every buffered
// attestation with data slot at or below the given slot.
func (p *attestationPool) drainUpTo(slot eth2types.Slot) []*types.Attestation {
	p.mu.Lock()
	defer p.mu.Unlock()
	var drained []*types.Attestation
	kept := p.buffer[:0]
	for _, att := range p.buffer {
		if att.Data.Slot <= slot {
			drained = append(drained, att)
		} else {
			kept = append(kept, att)
		}
	}
	for i := len(kept); i < len(p.buffer); i++ {
		p.buffer[i] = nil
	}
	p.buffer = kept
	return drained
}

// ingestLatest overwrites the cache entry for (pubkey, attestation slot).
func (p *attestationPool) ingestLatest(pubkey types.BLSPubkey, att *types.Attestation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.latest[attKey{pubkey: pubkey, slot: att.Data.Slot}] = &poolEntry{att: att, seq: p.seq}
}

// forget drops the cache entry for (pubkey, slot) if present. Called for
// every attestation already recorded on chain by an imported block.
func (p *attestationPool) forget(pubkey types.BLSPubkey, slot eth2types.Slot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.latest, attKey{pubkey: pubkey, slot: slot})
}

// purge removes every cache entry whose attestation slot is at or below the
// threshold and returns the number removed. The inclusive comparison follows
// the inclusion-window rule
// attestation.slot > state.slot - MIN_ATTESTATION_INCLUSION_DELAY - SLOTS_PER_EPOCH;
// note the boundary entry is removed even though the rule reads strict.
func (p *attestationPool) purge(threshold eth2types.Slot) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for key, entry := range p.latest {
		if entry.att.Data.Slot <= threshold {
			delete(p.latest, key)
			removed++
		}
	}
	return removed
}

// snapshot returns an immutable view of the cache grouped by public key.
func (p *attestationPool) snapshot() *PendingOperationsView {
	p.mu.Lock()
	defer p.mu.Unlock()
	grouped := make(map[types.BLSPubkey][]*poolEntry)
	for key, entry := range p.latest {
		grouped[key.pubkey] = append(grouped[key.pubkey], entry)
	}
	byPubkey := make(map[types.BLSPubkey][]*types.Attestation, len(grouped))
	for pubkey, entries := range grouped {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].seq < entries[j].seq
		})
		atts := make([]*types.Attestation, len(entries))
		for i, entry := range entries {
			atts[i] = entry.att
		}
		byPubkey[pubkey] = atts
	}
	return newPendingOperationsView(byPubkey)
}

func (p *attestationPool) bufferLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffer)
}

func (p *attestationPool) cacheLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.latest)
}
