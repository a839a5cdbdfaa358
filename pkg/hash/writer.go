package hash

import (
	"fmt"
	"io"
)

// WriterToWithDomain is the interface expected of all values entering the
// transcript. Domain returns a context string separating values of
// different types that would otherwise share a byte representation.
type WriterToWithDomain interface {
	io.WriterTo
	Domain() string
}

// BytesWithDomain wraps a raw byte string with an explicit domain tag.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

// WriteTo implements io.WriterTo.
func (b *BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (b *BytesWithDomain) Domain() string { return b.TheDomain }

type uint64WithDomain struct {
	domain string
	value  uint64
}

func (v uint64WithDomain) WriteTo(w io.Writer) (int64, error) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(v.value >> (8 * i))
	}
	n, err := w.Write(buf[:])
	return int64(n), err
}

func (v uint64WithDomain) Domain() string { return v.domain }

func writeWithDomain(w io.Writer, v WriterToWithDomain) error {
	domain := v.Domain()
	if _, err := (uint64WithDomain{"DomainLength", uint64(len(domain))}).WriteTo(w); err != nil {
		return fmt.Errorf("hash: domain length: %w", err)
	}
	if _, err := io.WriteString(w, domain); err != nil {
		return fmt.Errorf("hash: domain %q: %w", domain, err)
	}
	if _, err := v.WriteTo(w); err != nil {
		return fmt.Errorf("hash: payload for %q: %w", domain, err)
	}
	return nil
}
