// Package round defines the primitives for round-based protocols. Each
// protocol is implemented as a sequence of rounds, where a round
// verifies and stores the messages from the previous round and produces
// the messages for the next one.
package round

import (
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
)

// Number is the index of the current round. The first round of a
// protocol is 1; 0 is reserved for abort messages.
type Number uint16

// Round is a single state of a protocol execution.
type Round interface {
	// VerifyMessage handles an incoming Message and validates its contents.
	// It must not modify the round's state, since the same message may be
	// verified multiple times.
	VerifyMessage(msg Message) error

	// StoreMessage is run when VerifyMessage passes and stores the
	// relevant parts of the message in the round's state.
	StoreMessage(msg Message) error

	// Finalize runs once all messages from the previous round have been
	// stored. It sends the messages for the next round over out and
	// returns the next round. The out channel is always large enough to
	// hold all messages, so sends never block.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this
	// round, ready to be unmarshaled into. Returns nil if the round
	// expects no point-to-point messages.
	MessageContent() Content

	// Number returns this round's position in the protocol.
	Number() Number
}

// BroadcastRound is implemented by rounds that expect a broadcast
// message in addition to (or instead of) point-to-point messages.
type BroadcastRound interface {
	// StoreBroadcastMessage verifies and stores an incoming broadcast
	// message. Since broadcast messages are handled before the other
	// messages in the round, this method performs the validation as well.
	StoreBroadcastMessage(msg Message) error

	// BroadcastContent returns an uninitialized BroadcastContent ready to
	// be unmarshaled into.
	BroadcastContent() BroadcastContent

	Round
}

// Session represents the current execution of a round-based protocol.
// It embeds the current round and exposes the session parameters fixed
// at the start of the protocol.
type Session interface {
	Round
	// Group returns the curve group used for this protocol execution.
	Group() curve.Curve
	// Hash returns a clone of the hash function bound to the current
	// session state.
	Hash() *hash.Hash
	// ProtocolID identifies the protocol.
	ProtocolID() string
	// FinalRoundNumber is the number of rounds before the output round.
	FinalRoundNumber() Number
	// SSID is the unique identifier of this protocol execution.
	SSID() []byte
	// SelfID is this party's ID.
	SelfID() party.ID
	// PartyIDs is the sorted list of participants.
	PartyIDs() party.IDSlice
	// OtherPartyIDs is PartyIDs without SelfID.
	OtherPartyIDs() party.IDSlice
	// Threshold is the minimum number of parties needed to sign.
	Threshold() int
	// N is the number of participants.
	N() int
}
