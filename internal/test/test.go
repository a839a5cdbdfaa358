// Package test provides the in-memory plumbing used by the protocol
// tests: deterministic party IDs, a message-passing network, and a
// lockstep round executor with fault injection.
package test

import "github.com/vaultsig/cggmp21/pkg/party"

// PartyIDs returns a deterministic sorted set of n party IDs.
func PartyIDs(n int) party.IDSlice {
	baseString := ""
	ids := make([]party.ID, n)
	for i := range ids {
		if i%26 == 0 && i > 0 {
			baseString += "a"
		}
		ids[i] = party.ID(baseString + string(rune('a'+i%26)))
	}
	return party.NewIDSlice(ids)
}
