package cmp_test

import (
	"crypto/rand"
	mrand "math/rand"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vaultsig/cggmp21/internal/test"
	"github.com/vaultsig/cggmp21/pkg/ecdsa"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/protocol"
	"github.com/vaultsig/cggmp21/protocols/cmp"
)

// runProtocol executes one handler per party over an in-memory network
// and collects every party's result.
func runProtocol(ids party.IDSlice, create func(id party.ID) protocol.StartFunc) (map[party.ID]interface{}, error) {
	network := test.NewNetwork(ids)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  = make(map[party.ID]interface{}, len(ids))
		firstErr error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id party.ID) {
			defer wg.Done()
			h, err := protocol.NewMultiHandler(create(id), nil)
			if err == nil {
				test.HandlerLoop(id, h, network)
			}
			var r interface{}
			if err == nil {
				r, err = h.Result()
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			results[id] = r
		}(id)
	}
	wg.Wait()
	return results, firstErr
}

var _ = Describe("CMP end to end", func() {
	var (
		pl    *pool.Pool
		group curve.Curve
	)

	BeforeEach(func() {
		pl = pool.NewPool(0)
		group = curve.Secp256k1{}
	})

	AfterEach(func() {
		pl.TearDown()
	})

	It("signs with fixture shares", func() {
		n, threshold := 3, 2
		configs, ids := test.GenerateConfig(group, n, threshold, mrand.New(mrand.NewSource(1)), pl)
		publicPoint := configs[ids[0]].PublicPoint()

		messageHash := make([]byte, 32)
		_, _ = rand.Read(messageHash)

		signers := ids[:threshold]
		results, err := runProtocol(signers, func(id party.ID) protocol.StartFunc {
			return cmp.Sign(configs[id], signers, messageHash, pl)
		})
		Expect(err).NotTo(HaveOccurred())

		for _, r := range results {
			sig, ok := r.(*ecdsa.Signature)
			Expect(ok).To(BeTrue())
			Expect(sig.Verify(publicPoint, messageHash)).To(BeTrue())
		}
	})

	It("refreshes shares without changing the key", func() {
		n, threshold := 3, 2
		configs, ids := test.GenerateConfig(group, n, threshold, mrand.New(mrand.NewSource(2)), pl)
		publicPoint := configs[ids[0]].PublicPoint()

		results, err := runProtocol(ids, func(id party.ID) protocol.StartFunc {
			return cmp.Refresh(configs[id], pl)
		})
		Expect(err).NotTo(HaveOccurred())

		refreshed := make(map[party.ID]*cmp.Config, n)
		for id, r := range results {
			c, ok := r.(*cmp.Config)
			Expect(ok).To(BeTrue())
			Expect(c.Validate()).To(Succeed())
			Expect(c.PublicPoint().Equal(publicPoint)).To(BeTrue())
			refreshed[id] = c
		}

		// the refreshed shares must still produce valid signatures
		messageHash := make([]byte, 32)
		_, _ = rand.Read(messageHash)
		signers := ids[:threshold]
		sigResults, err := runProtocol(signers, func(id party.ID) protocol.StartFunc {
			return cmp.Sign(refreshed[id], signers, messageHash, pl)
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range sigResults {
			Expect(r.(*ecdsa.Signature).Verify(publicPoint, messageHash)).To(BeTrue())
		}
	})

	It("generates a key, refreshes it and signs", Label("slow"), func() {
		n, threshold := 3, 2
		ids := test.PartyIDs(n)

		results, err := runProtocol(ids, func(id party.ID) protocol.StartFunc {
			return cmp.Keygen(group, id, ids, threshold, pl)
		})
		Expect(err).NotTo(HaveOccurred())

		configs := make(map[party.ID]*cmp.Config, n)
		for id, r := range results {
			c, ok := r.(*cmp.Config)
			Expect(ok).To(BeTrue())
			Expect(c.Validate()).To(Succeed())
			configs[id] = c
		}
		publicPoint := configs[ids[0]].PublicPoint()
		for _, c := range configs {
			Expect(c.PublicPoint().Equal(publicPoint)).To(BeTrue())
		}

		refreshResults, err := runProtocol(ids, func(id party.ID) protocol.StartFunc {
			return cmp.Refresh(configs[id], pl)
		})
		Expect(err).NotTo(HaveOccurred())
		for id, r := range refreshResults {
			configs[id] = r.(*cmp.Config)
			Expect(configs[id].PublicPoint().Equal(publicPoint)).To(BeTrue())
		}

		messageHash := make([]byte, 32)
		_, _ = rand.Read(messageHash)
		signers := ids[:threshold]
		sigResults, err := runProtocol(signers, func(id party.ID) protocol.StartFunc {
			return cmp.Sign(configs[id], signers, messageHash, pl)
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range sigResults {
			sig := r.(*ecdsa.Signature)
			Expect(sig.Verify(publicPoint, messageHash)).To(BeTrue())
		}
	})

	It("signs for a derived child key", func() {
		n, threshold := 3, 2
		configs, ids := test.GenerateConfig(group, n, threshold, mrand.New(mrand.NewSource(3)), pl)

		derived := make(map[party.ID]*cmp.Config, n)
		for id, c := range configs {
			child, err := c.DeriveBIP32(42)
			Expect(err).NotTo(HaveOccurred())
			derived[id] = child
		}
		childPoint := derived[ids[0]].PublicPoint()
		Expect(childPoint.Equal(configs[ids[0]].PublicPoint())).To(BeFalse())

		messageHash := make([]byte, 32)
		_, _ = rand.Read(messageHash)
		signers := ids[:threshold]
		results, err := runProtocol(signers, func(id party.ID) protocol.StartFunc {
			return cmp.Sign(derived[id], signers, messageHash, pl)
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r.(*ecdsa.Signature).Verify(childPoint, messageHash)).To(BeTrue())
		}
	})
})
