// Package party defines the identifiers under which protocol participants
// are known for the duration of an execution.
package party

import (
	"encoding/binary"
	"errors"
	"io"
	"sort"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
)

// ID uniquely identifies a participant for one protocol execution.
// IDs are assumed to be bound to an authenticated transport identity by the
// caller; the protocols never authenticate them cryptographically.
type ID string

// Scalar maps the ID to a non-zero field element, used as the evaluation
// point for this party's polynomial shares.
func (id ID) Scalar(group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes([]byte(id)))
}

// WriteTo makes ID implement io.WriterTo.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ID) Domain() string { return "ID" }

// IDSlice is a sorted set of IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of partyIDs with duplicates removed.
func NewIDSlice(partyIDs []ID) IDSlice {
	ids := IDSlice(partyIDs).Copy()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || ids[i-1] != id {
			out = append(out, id)
		}
	}
	return out
}

// Copy returns a fresh copy of the slice.
func (partyIDs IDSlice) Copy() IDSlice {
	ids := make(IDSlice, len(partyIDs))
	copy(ids, partyIDs)
	return ids
}

// Contains returns true if partyIDs contains all the given ids.
func (partyIDs IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if partyIDs.search(id) < 0 {
			return false
		}
	}
	return true
}

// Valid reports whether the slice is sorted and free of duplicates.
func (partyIDs IDSlice) Valid() bool {
	for i := 1; i < len(partyIDs); i++ {
		if partyIDs[i-1] >= partyIDs[i] {
			return false
		}
	}
	return true
}

// Remove returns a copy of the slice with id removed, if present.
func (partyIDs IDSlice) Remove(id ID) IDSlice {
	out := make(IDSlice, 0, len(partyIDs))
	for _, j := range partyIDs {
		if j != id {
			out = append(out, j)
		}
	}
	return out
}

func (partyIDs IDSlice) search(id ID) int {
	i := sort.Search(len(partyIDs), func(i int) bool { return partyIDs[i] >= id })
	if i < len(partyIDs) && partyIDs[i] == id {
		return i
	}
	return -1
}

// WriteTo writes each ID prefixed with its length, implementing
// io.WriterTo. The prefix keeps adjacent IDs from being re-segmented
// into a colliding encoding.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var buf [8]byte
	for _, id := range partyIDs {
		binary.BigEndian.PutUint64(buf[:], uint64(len(id)))
		n, err := w.Write(buf[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
		m, err := id.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (IDSlice) Domain() string { return "IDSlice" }

// RandomIDs returns a sorted slice of n random IDs, for tests and tooling.
func RandomIDs(n int, source io.Reader) (IDSlice, error) {
	if n <= 0 {
		return nil, errors.New("party: non-positive count")
	}
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, 8)
	ids := make([]ID, n)
	for i := range ids {
		if _, err := io.ReadFull(source, buf); err != nil {
			return nil, err
		}
		name := make([]byte, len(buf))
		for j, b := range buf {
			name[j] = alphabet[int(b)%len(alphabet)]
		}
		ids[i] = ID(name)
	}
	return NewIDSlice(ids), nil
}
