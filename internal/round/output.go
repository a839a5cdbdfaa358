package round

import "github.com/vaultsig/cggmp21/pkg/party"

// Output is the terminal round of a successful protocol execution; it
// carries the protocol result.
type Output struct {
	*Helper
	Result interface{}
}

func (Output) VerifyMessage(Message) error { return nil }

func (Output) StoreMessage(Message) error { return nil }

func (r *Output) Finalize(chan<- *Message) (Session, error) { return r, nil }

func (Output) MessageContent() Content { return nil }

func (r *Output) Number() Number { return r.FinalRoundNumber() + 1 }

// Abort is the terminal round of a failed protocol execution. Culprits
// lists the parties whose misbehavior was detected, when attributable.
type Abort struct {
	*Helper
	Culprits []party.ID
	Err      error
}

func (Abort) VerifyMessage(Message) error { return nil }

func (Abort) StoreMessage(Message) error { return nil }

func (r *Abort) Finalize(chan<- *Message) (Session, error) { return r, nil }

func (Abort) MessageContent() Content { return nil }

func (r *Abort) Number() Number { return r.FinalRoundNumber() + 1 }
