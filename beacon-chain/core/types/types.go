// Package types holds the consensus containers the observable chain services
// operate on: blocks, states, attestations and the operations tracked for
// block production.
package types

import (
	"github.com/speculalabs/specula/shared/bytesutil"
)

// BLSPubkey is a validator's 48 byte BLS12-381 public key.
type BLSPubkey [48]byte

// String returns a truncated hex representation for logging.
func (p BLSPubkey) String() string {
	return bytesutil.Trunc(p[:])
}

// TransitionType tags an extended beacon state with the transition that
// produced it.
type TransitionType uint8

// Transition types, in the order they occur within a slot.
const (
	TransitionInitial TransitionType = iota
	TransitionSlot
	TransitionBlock
	TransitionEpoch
)

// String returns the human readable tag name.
func (t TransitionType) String() string {
	switch t {
	case TransitionInitial:
		return "INITIAL"
	case TransitionSlot:
		return "SLOT"
	case TransitionBlock:
		return "BLOCK"
	case TransitionEpoch:
		return "EPOCH"
	default:
		return "UNKNOWN"
	}
}

// ProposerSlashing is a proof of a proposer signing two blocks at the same slot.
type ProposerSlashing struct {
	ProposerIndex uint64
}

// AttesterSlashing is a proof of two conflicting attestations by the same validators.
type AttesterSlashing struct {
	Attestation1 *Attestation
	Attestation2 *Attestation
}

// Deposit is a validator deposit observed on the PoW chain.
type Deposit struct {
	Pubkey BLSPubkey
	Amount uint64
}

// VoluntaryExit is a validator's request to exit the registry.
type VoluntaryExit struct {
	ValidatorIndex uint64
	Epoch          uint64
}

// Transfer moves balance between validators.
type Transfer struct {
	Sender    uint64
	Recipient uint64
	Amount    uint64
}
