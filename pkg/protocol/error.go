package protocol

import (
	"fmt"

	"github.com/vaultsig/cggmp21/pkg/party"
)

// Error is the fatal result of a protocol execution. Culprits lists the
// parties whose misbehavior caused the abort, when it could be
// attributed.
type Error struct {
	Culprits []party.ID
	Err      error
}

// Error implements error.
func (e Error) Error() string {
	if len(e.Culprits) == 0 {
		return fmt.Sprintf("protocol: %s", e.Err)
	}
	return fmt.Sprintf("protocol: culprits %v: %s", e.Culprits, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e Error) Unwrap() error {
	return e.Err
}
