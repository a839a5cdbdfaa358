package types

import "io"

// SigningMessage wraps the message being signed so it can be absorbed
// into the session hash with its own domain.
type SigningMessage []byte

// WriteTo implements io.WriterTo.
func (m SigningMessage) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (SigningMessage) Domain() string {
	return "Signed Message"
}
