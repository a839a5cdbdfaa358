package test

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/party"
)

// Rule injects faults into a protocol execution. The zero behavior of
// every method is a no-op, so a rule only overrides what it corrupts.
type Rule interface {
	// ModifyBefore runs before the round is finalized.
	ModifyBefore(rPrevious round.Session)
	// ModifyAfter runs after the round is finalized.
	ModifyAfter(rNext round.Session)
	// ModifyContent can modify the content of an outgoing message.
	ModifyContent(rNext round.Session, to party.ID, content round.Content)
}

// Rounds executes one round for every session in lockstep, delivering
// all produced messages through a cbor round trip. It returns true once
// every session has reached a terminal round.
func Rounds(rounds []round.Session, rule Rule) (error, bool) {
	var (
		err       error
		roundType reflect.Type
		errGroup  errgroup.Group
		N         = len(rounds)
		out       = make(chan *round.Message, N*(N+1))
	)

	if roundType, err = checkAllRoundsSame(rounds); err != nil {
		return err, false
	}

	for id := range rounds {
		idx := id
		r := rounds[idx]
		errGroup.Go(func() error {
			var rNew round.Session
			var err error
			if rule != nil {
				rule.ModifyBefore(r)
				outFake := make(chan *round.Message, N+1)
				rNew, err = r.Finalize(outFake)
				close(outFake)
				if rNew != nil {
					rule.ModifyAfter(rNew)
					for msg := range outFake {
						rule.ModifyContent(rNew, msg.To, msg.Content)
						out <- msg
					}
				} else {
					for msg := range outFake {
						out <- msg
					}
				}
			} else {
				rNew, err = r.Finalize(out)
			}
			if err != nil {
				return err
			}
			if rNew != nil {
				rounds[idx] = rNew
			}
			return nil
		})
	}
	if err = errGroup.Wait(); err != nil {
		return err, false
	}
	close(out)

	if roundType, err = checkAllRoundsSame(rounds); err != nil {
		return err, false
	}
	if roundType == reflect.TypeOf(&round.Output{}) || roundType == reflect.TypeOf(&round.Abort{}) {
		return nil, true
	}

	for msg := range out {
		msgBytes, err := cbor.Marshal(msg.Content)
		if err != nil {
			return err, false
		}
		for _, r := range rounds {
			m := *msg
			r := r
			if msg.From == r.SelfID() {
				continue
			}
			if m.To == "" || m.To == r.SelfID() {
				errGroup.Go(func() error {
					if m.Broadcast {
						b, ok := r.(round.BroadcastRound)
						if !ok {
							return errors.New("broadcast message sent to non-broadcast round")
						}
						content := b.BroadcastContent()
						if err := cbor.Unmarshal(msgBytes, content); err != nil {
							return err
						}
						m.Content = content
						if err := b.StoreBroadcastMessage(m); err != nil {
							return fmt.Errorf("%s: %w", r.SelfID(), err)
						}
					} else {
						content := r.MessageContent()
						if err := cbor.Unmarshal(msgBytes, content); err != nil {
							return err
						}
						m.Content = content
						if err := r.VerifyMessage(m); err != nil {
							return fmt.Errorf("%s: %w", r.SelfID(), err)
						}
						if err := r.StoreMessage(m); err != nil {
							return fmt.Errorf("%s: %w", r.SelfID(), err)
						}
					}
					return nil
				})
			}
		}
		if err = errGroup.Wait(); err != nil {
			return err, false
		}
	}

	return nil, false
}

func checkAllRoundsSame(rounds []round.Session) (reflect.Type, error) {
	var t reflect.Type
	for _, r := range rounds {
		rReal := reflect.TypeOf(r)
		if t == nil {
			t = rReal
		} else if t != rReal {
			return t, fmt.Errorf("rounds have different types: %s != %s", t, rReal)
		}
	}
	return t, nil
}
