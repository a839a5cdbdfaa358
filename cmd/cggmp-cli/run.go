package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vaultsig/cggmp21/internal/test"
	"github.com/vaultsig/cggmp21/pkg/ecdsa"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/protocol"
	"github.com/vaultsig/cggmp21/protocols/cmp"
)

// runProtocol executes one protocol instance per party over an
// in-memory network and collects the results.
func runProtocol(ids []party.ID, start func(id party.ID, pl *pool.Pool) protocol.StartFunc) (map[party.ID]interface{}, error) {
	network := test.NewNetwork(ids)

	var mtx sync.Mutex
	results := make(map[party.ID]interface{}, len(ids))

	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			pl := pool.NewPool(0)
			defer pl.TearDown()

			h, err := protocol.NewMultiHandler(start(id, pl), nil)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			test.HandlerLoop(id, h, network)

			r, err := h.Result()
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			mtx.Lock()
			results[id] = r
			mtx.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadConfig(id party.ID) (*cmp.Config, error) {
	data, err := os.ReadFile(sharePath(id))
	if err != nil {
		return nil, fmt.Errorf("loading share of %s: %w", id, err)
	}
	c := cmp.EmptyConfig(curve.Secp256k1{})
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("parsing share of %s: %w", id, err)
	}
	return c, nil
}

func saveConfigs(results map[party.ID]interface{}) error {
	var publicKey []byte
	for id, r := range results {
		c := r.(*cmp.Config)
		data, err := c.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(sharePath(id), data, 0o600); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("  %s: %d bytes\n", sharePath(id), len(data))
		}
		if publicKey == nil {
			publicKey, err = c.PublicPoint().MarshalBinary()
			if err != nil {
				return err
			}
		}
	}
	if err := os.WriteFile(publicKeyPath(), publicKey, 0o644); err != nil {
		return err
	}
	fmt.Printf("Public key: %s\n", hex.EncodeToString(publicKey))
	return nil
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}
	ids := partyIDs(parties)

	fmt.Printf("Generating a %d-of-%d key over secp256k1...\n", threshold, parties)
	results, err := runProtocol(ids, func(id party.ID, pl *pool.Pool) protocol.StartFunc {
		return cmp.Keygen(curve.Secp256k1{}, id, ids, threshold, pl)
	})
	if err != nil {
		return fmt.Errorf("keygen failed: %w", err)
	}
	if err := saveConfigs(results); err != nil {
		return err
	}
	fmt.Printf("Shares written to %s\n", configDir)
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	configs, ids, err := loadAllConfigs()
	if err != nil {
		return err
	}

	fmt.Printf("Refreshing %d shares...\n", len(ids))
	results, err := runProtocol(ids, func(id party.ID, pl *pool.Pool) protocol.StartFunc {
		return cmp.Refresh(configs[id], pl)
	})
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if err := saveConfigs(results); err != nil {
		return err
	}
	fmt.Println("Refresh complete. Old shares are now invalid.")
	return nil
}

// loadAllConfigs loads every share in the config directory.
func loadAllConfigs() (map[party.ID]*cmp.Config, []party.ID, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		return nil, nil, err
	}
	configs := make(map[party.ID]*cmp.Config)
	var ids []party.ID
	for _, e := range entries {
		name := e.Name()
		if len(name) < 7 || name[len(name)-6:] != ".share" {
			continue
		}
		id := party.ID(name[:len(name)-6])
		c, err := loadConfig(id)
		if err != nil {
			return nil, nil, err
		}
		configs[id] = c
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("no shares found in %s, run keygen first", configDir)
	}
	return configs, party.NewIDSlice(ids), nil
}

func runSign(cmd *cobra.Command, args []string) error {
	message, err := messageFromFlags(cmd)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(message)

	configs, ids, err := loadAllConfigs()
	if err != nil {
		return err
	}

	signers := ids
	if names, _ := cmd.Flags().GetStringSlice("signers"); len(names) > 0 {
		signers = make([]party.ID, len(names))
		for i, s := range names {
			signers[i] = party.ID(s)
			if _, ok := configs[signers[i]]; !ok {
				return fmt.Errorf("no share for signer %s", s)
			}
		}
	} else if t := configs[ids[0]].Threshold; len(ids) > t {
		signers = ids[:t]
	}

	fmt.Printf("Signing with %v...\n", signers)
	results, err := runProtocol(signers, func(id party.ID, pl *pool.Pool) protocol.StartFunc {
		return cmp.Sign(configs[id], signers, hash[:], pl)
	})
	if err != nil {
		return fmt.Errorf("signing failed: %w", err)
	}

	sig := results[signers[0]].(*ecdsa.Signature)
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = "signature.json"
	}
	if err := writeSignature(out, sig); err != nil {
		return fmt.Errorf("writing signature: %w", err)
	}
	fmt.Printf("Signature written to %s\n", out)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	message, err := messageFromFlags(cmd)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(message)

	group := curve.Secp256k1{}
	sigFile, _ := cmd.Flags().GetString("signature")
	sig, err := readSignature(sigFile, group)
	if err != nil {
		return fmt.Errorf("reading signature: %w", err)
	}

	pkBytes, err := os.ReadFile(publicKeyPath())
	if err != nil {
		return fmt.Errorf("reading public key: %w", err)
	}
	publicKey := group.NewPoint()
	if err := publicKey.UnmarshalBinary(pkBytes); err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}

	if !sig.Verify(publicKey, hash[:]) {
		return fmt.Errorf("signature is invalid")
	}
	fmt.Println("Signature is valid.")
	return nil
}
