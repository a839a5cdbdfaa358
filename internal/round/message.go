package round

import "github.com/vaultsig/cggmp21/pkg/party"

// Content represents the data sent in a message, tagged with the round
// that should receive it.
type Content interface {
	RoundNumber() Number
}

// BroadcastContent wraps Content for messages that are broadcast to all
// parties.
type BroadcastContent interface {
	Content
	Reliable() bool
}

// NormalBroadcastContent is embedded by broadcast messages that do not
// require reliable (echo) broadcast.
type NormalBroadcastContent struct{}

func (NormalBroadcastContent) Reliable() bool { return false }

// ReliableBroadcastContent is embedded by broadcast messages that must
// be delivered identically to all parties; the handler verifies an echo
// hash over them in the following round.
type ReliableBroadcastContent struct{}

func (ReliableBroadcastContent) Reliable() bool { return true }

// Message is the raw unit of communication between rounds.
type Message struct {
	From, To  party.ID
	Broadcast bool
	Content   Content
}
