package types

import (
	"encoding/binary"
	"errors"
	"io"
)

// RID is a 32-byte random identifier jointly generated during key
// generation. Every party contributes entropy, so no single party
// controls the final value.
type RID []byte

const lenRID = 32

// EmptyRID returns a zeroed RID ready to be filled.
func EmptyRID() RID {
	return make(RID, lenRID)
}

// NewRID samples a fresh RID from rw.
func NewRID(rw io.Reader) (RID, error) {
	rid := EmptyRID()
	if _, err := io.ReadFull(rw, rid); err != nil {
		return nil, errors.New("types: failed to generate RID")
	}
	return rid, nil
}

// XOR mixes the other RID into this one.
func (rid RID) XOR(other RID) {
	for i := range rid {
		rid[i] ^= other[i]
	}
}

// WriteTo implements io.WriterTo.
func (rid RID) WriteTo(w io.Writer) (int64, error) {
	if rid == nil {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write(rid)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (RID) Domain() string {
	return "RID"
}

// Validate returns an error if the RID has the wrong length or is all
// zeroes.
func (rid RID) Validate() error {
	if len(rid) != lenRID {
		return errors.New("types: RID has wrong length")
	}
	for _, b := range rid {
		if b != 0 {
			return nil
		}
	}
	return errors.New("types: RID is zero")
}

// Copy returns a fresh copy of the RID.
func (rid RID) Copy() RID {
	other := EmptyRID()
	copy(other, rid)
	return other
}

// ThresholdWrapper lets a threshold value be written to a hash with its
// own domain.
type ThresholdWrapper uint32

// WriteTo implements io.WriterTo.
func (t ThresholdWrapper) WriteTo(w io.Writer) (int64, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(t))
	n, err := w.Write(buf[:])
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ThresholdWrapper) Domain() string {
	return "Threshold"
}
