package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/party"
)

// Message is the unit of communication between parties. It wraps the
// serialized round content with the routing and session metadata the
// handler needs to dispatch it.
type Message struct {
	// SSID is the unique identifier of the protocol execution.
	SSID []byte
	// From is the sender.
	From party.ID
	// To is the intended recipient; empty for broadcast messages.
	To party.ID
	// Protocol identifies the protocol this message belongs to.
	Protocol string
	// RoundNumber is the round that should receive this message.
	RoundNumber round.Number
	// Data is the serialized round content.
	Data []byte
	// Broadcast indicates the message must be delivered to all parties.
	// The network layer is expected to deliver it reliably.
	Broadcast bool
	// BroadcastVerification is the echo hash over the previous round's
	// broadcast messages, when that round required reliable broadcast.
	BroadcastVerification []byte
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("message: round %d, from: %s, to %s, protocol: %s", m.RoundNumber, m.From, m.To, m.Protocol)
}

// IsFor returns true if the message is intended for the given party.
func (m Message) IsFor(id party.ID) bool {
	if m.From == id {
		return false
	}
	return m.To == "" || m.To == id
}

// Hash returns a 32-byte digest of the full message, used for the echo
// broadcast check.
func (m Message) Hash() []byte {
	var broadcast byte
	if m.Broadcast {
		broadcast = 1
	}
	h := hash.New(
		&hash.BytesWithDomain{TheDomain: "SSID", Bytes: m.SSID},
		m.From,
		m.To,
		&hash.BytesWithDomain{TheDomain: "Protocol", Bytes: []byte(m.Protocol)},
		&hash.BytesWithDomain{TheDomain: "RoundNumber", Bytes: []byte{byte(m.RoundNumber)}},
		&hash.BytesWithDomain{TheDomain: "Data", Bytes: m.Data},
		&hash.BytesWithDomain{TheDomain: "Broadcast", Bytes: []byte{broadcast}},
		&hash.BytesWithDomain{TheDomain: "BroadcastVerification", Bytes: m.BroadcastVerification},
	)
	return h.Sum()
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m Message) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(m)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Message) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, m)
}
