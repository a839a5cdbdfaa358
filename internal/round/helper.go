package round

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
)

// Info contains the parameters needed to create a Helper.
type Info struct {
	// ProtocolID identifies the protocol.
	ProtocolID string
	// FinalRoundNumber is the number of rounds before the output round.
	FinalRoundNumber Number
	// SelfID is this party's ID.
	SelfID party.ID
	// PartyIDs lists the participants; it will be sorted.
	PartyIDs []party.ID
	// Threshold is the minimum number of parties needed to sign.
	Threshold int
	// Group is the curve group used for this protocol execution.
	Group curve.Curve
}

// Helper implements the Session interface and provides the utilities
// shared by all rounds: the transcript hash, message construction, and
// the session parameters.
type Helper struct {
	info Info

	pool *pool.Pool

	partyIDs      party.IDSlice
	otherPartyIDs party.IDSlice

	ssid []byte

	hash *hash.Hash

	mtx sync.Mutex
}

// NewSession creates a Helper for a new protocol execution. The hash is
// initialized with the session parameters and any protocol-specific
// auxiliary info, so the SSID commits to everything both sides must
// agree on.
func NewSession(info Info, sessionID []byte, pl *pool.Pool, auxInfo ...hash.WriterToWithDomain) (*Helper, error) {
	partyIDs := party.NewIDSlice(info.PartyIDs)
	if !partyIDs.Valid() {
		return nil, errors.New("session: partyIDs invalid")
	}
	if !partyIDs.Contains(info.SelfID) {
		return nil, fmt.Errorf("session: selfID %s not included in partyIDs", info.SelfID)
	}
	if info.Threshold < 0 || info.Threshold > len(partyIDs) {
		return nil, fmt.Errorf("session: threshold %d invalid for %d parties", info.Threshold, len(partyIDs))
	}

	h := hash.New()
	if sessionID != nil {
		if err := h.WriteAny(&hash.BytesWithDomain{
			TheDomain: "Session ID",
			Bytes:     sessionID,
		}); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	if err := h.WriteAny(&hash.BytesWithDomain{
		TheDomain: "Protocol ID",
		Bytes:     []byte(info.ProtocolID),
	}); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if info.Group != nil {
		if err := h.WriteAny(&hash.BytesWithDomain{
			TheDomain: "Group Name",
			Bytes:     []byte(info.Group.Name()),
		}); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	if err := h.WriteAny(partyIDs); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := h.WriteAny(types.ThresholdWrapper(info.Threshold)); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	for _, a := range auxInfo {
		if a == nil {
			continue
		}
		if err := h.WriteAny(a); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	return &Helper{
		info:          info,
		pool:          pl,
		partyIDs:      partyIDs,
		otherPartyIDs: partyIDs.Remove(info.SelfID),
		ssid:          h.Clone().Sum(),
		hash:          h,
	}, nil
}

// Hash returns a clone of the hash bound to the current session state.
func (h *Helper) Hash() *hash.Hash {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.hash.Clone()
}

// HashForID returns a clone of the session hash, additionally bound to
// the given party. Proofs generated for a specific verifier use this so
// they cannot be replayed between parties.
func (h *Helper) HashForID(id party.ID) *hash.Hash {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	cloned := h.hash.Clone()
	if id != "" {
		_ = cloned.WriteAny(id)
	}
	return cloned
}

// UpdateHashState writes value to the hash state shared by all
// subsequent rounds.
func (h *Helper) UpdateHashState(value hash.WriterToWithDomain) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	_ = h.hash.WriteAny(value)
}

// SendMessage sends content to a single party. The out channel always
// has capacity for all messages, so a full channel is a bug.
func (h *Helper) SendMessage(out chan<- *Message, content Content, to party.ID) error {
	msg := &Message{
		From:    h.info.SelfID,
		To:      to,
		Content: content,
	}
	select {
	case out <- msg:
		return nil
	default:
		return ErrOutChanFull
	}
}

// BroadcastMessage sends content to all parties.
func (h *Helper) BroadcastMessage(out chan<- *Message, content BroadcastContent) error {
	msg := &Message{
		From:      h.info.SelfID,
		Broadcast: true,
		Content:   content,
	}
	select {
	case out <- msg:
		return nil
	default:
		return ErrOutChanFull
	}
}

// ResultRound wraps a protocol result in a terminal round.
func (h *Helper) ResultRound(result interface{}) Session {
	return &Output{
		Helper: h,
		Result: result,
	}
}

// AbortRound wraps a fatal error and the responsible parties in a
// terminal round.
func (h *Helper) AbortRound(err error, culprits ...party.ID) Session {
	return &Abort{
		Helper:   h,
		Culprits: culprits,
		Err:      err,
	}
}

// ProtocolID identifies the protocol.
func (h *Helper) ProtocolID() string { return h.info.ProtocolID }

// FinalRoundNumber is the number of rounds before the output round.
func (h *Helper) FinalRoundNumber() Number { return h.info.FinalRoundNumber }

// SSID is the unique identifier of this protocol execution.
func (h *Helper) SSID() []byte { return h.ssid }

// SelfID is this party's ID.
func (h *Helper) SelfID() party.ID { return h.info.SelfID }

// PartyIDs is the sorted list of participants.
func (h *Helper) PartyIDs() party.IDSlice { return h.partyIDs }

// OtherPartyIDs is PartyIDs without SelfID.
func (h *Helper) OtherPartyIDs() party.IDSlice { return h.otherPartyIDs }

// Threshold is the minimum number of parties needed to sign.
func (h *Helper) Threshold() int { return h.info.Threshold }

// N is the number of participants.
func (h *Helper) N() int { return len(h.info.PartyIDs) }

// Group is the curve group used for this protocol execution.
func (h *Helper) Group() curve.Curve { return h.info.Group }

// Pool returns the worker pool for expensive computations; may be nil.
func (h *Helper) Pool() *pool.Pool { return h.pool }
