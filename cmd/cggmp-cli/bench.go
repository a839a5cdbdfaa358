package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/chacha20"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/protocol"
	"github.com/vaultsig/cggmp21/protocols/cmp"
)

// messageStream produces a deterministic sequence of message hashes from
// a seed, so benchmark runs are comparable across machines.
type messageStream struct {
	cipher *chacha20.Cipher
}

func newMessageStream(seed []byte) (*messageStream, error) {
	if seed == nil {
		seed = make([]byte, chacha20.KeySize)
		if _, err := rand.Read(seed); err != nil {
			return nil, err
		}
	}
	if len(seed) != chacha20.KeySize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", chacha20.KeySize, len(seed))
	}
	c, err := chacha20.NewUnauthenticatedCipher(seed, make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, err
	}
	return &messageStream{cipher: c}, nil
}

func (s *messageStream) next() []byte {
	msg := make([]byte, 32)
	s.cipher.XORKeyStream(msg, msg)
	return msg
}

func runBench(cmd *cobra.Command, args []string) error {
	iterations, _ := cmd.Flags().GetInt("iterations")

	var seed []byte
	if seedHex, _ := cmd.Flags().GetString("seed"); seedHex != "" {
		var err error
		if seed, err = hex.DecodeString(seedHex); err != nil {
			return fmt.Errorf("decoding seed: %w", err)
		}
	}
	messages, err := newMessageStream(seed)
	if err != nil {
		return err
	}

	group := curve.Secp256k1{}
	cases := []struct {
		n, t int
	}{
		{3, 2},
		{5, 3},
	}

	for _, tc := range cases {
		ids := partyIDs(tc.n)
		fmt.Printf("\n=== %d-of-%d ===\n", tc.t, tc.n)

		var configs map[party.ID]interface{}
		keygenTime, err := timeIt(iterations, func() error {
			configs, err = runProtocol(ids, func(id party.ID, pl *pool.Pool) protocol.StartFunc {
				return cmp.Keygen(group, id, ids, tc.t, pl)
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("keygen bench: %w", err)
		}
		fmt.Printf("keygen:  %v avg\n", keygenTime)

		refreshTime, err := timeIt(iterations, func() error {
			_, err := runProtocol(ids, func(id party.ID, pl *pool.Pool) protocol.StartFunc {
				return cmp.Refresh(configs[id].(*cmp.Config), pl)
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("refresh bench: %w", err)
		}
		fmt.Printf("refresh: %v avg\n", refreshTime)

		signers := ids[:tc.t]
		signTime, err := timeIt(iterations, func() error {
			msg := messages.next()
			_, err := runProtocol(signers, func(id party.ID, pl *pool.Pool) protocol.StartFunc {
				return cmp.Sign(configs[id].(*cmp.Config), signers, msg, pl)
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("sign bench: %w", err)
		}
		fmt.Printf("sign:    %v avg\n", signTime)
	}
	return nil
}

func timeIt(iterations int, f func() error) (time.Duration, error) {
	var total time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := f(); err != nil {
			return 0, err
		}
		total += time.Since(start)
	}
	return total / time.Duration(iterations), nil
}
