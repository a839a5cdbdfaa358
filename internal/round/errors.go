package round

import "errors"

var (
	// ErrInvalidContent is returned when a message contains content of
	// the wrong type for the round.
	ErrInvalidContent = errors.New("invalid content type")

	// ErrNilFields is returned when required fields of a message are nil.
	ErrNilFields = errors.New("message contains nil fields")

	// ErrInvalidRoundNumber is returned when content is tagged for a
	// different round.
	ErrInvalidRoundNumber = errors.New("invalid round number")

	// ErrOutChanFull indicates Finalize was given an undersized channel.
	ErrOutChanFull = errors.New("message out channel is full")

	// ErrZKVerificationFailed is returned when a zero knowledge proof
	// attached to a message does not verify.
	ErrZKVerificationFailed = errors.New("zk proof verification failed")
)
