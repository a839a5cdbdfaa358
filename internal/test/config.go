package test

import (
	"encoding/hex"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/protocols/cmp/config"
)

// Precomputed safe Blum primes, so tests do not spend minutes searching
// for fresh Paillier keys. Never use these outside tests.
var primeHex = []string{
	"f468b59cb8b1852ae7c1ca70e2530818c4aeb149b70133c7fdc3397339470dd9eefa345f4eb16dd77acda9df8925f3ff7d0676acf2335c8b4843d13e1299f64fb9ca643b583fd538aa208c87440278a5edc076b58e01f7279d9ec373ee507edbfdbcedb3c5199a18da6bc7c0d9ebbc765bf8f5dc3a83956e11eb7448f70e413f",
	"8ae18b60c4fc142533dd88314138de6b59b00f77ac7c15cdb300c18c801b50f11500a157563a7f38ed654c34322a4cbcb57e2f43ba2cdce6245d29e32ca5408fb965fbc6156b7d5352867c75bf37840fbcde097f0bbe1edc47a711a7951c71e003780ada0202928d15a37d96b7eddf3bf4f6959011c7ea11ab19ec609102194b",
	"971617fa2a4bd34f4120c77cd2f1cb196bf7acff39e65d2cfa24f6a3c8fc8db16fa7a0cc46938242c6e01bf3d187e01c3ddd555fb303de3cebd8aef2b845cbd1202e2e23c251f380cdae51c62724c23dd30f877e9f5ae573503db22122f55bd74bb5c3d1437dabbd7d2104754245dae31d0eb97e5255c5c51dec061cf0863ba3",
	"fa31bad64ffba0e541ff67ad3849251c3bec01f568e835d99750f2a1754f5fec8cc2c1ceb9b35fdf9a9c391f63c5ab6a78ba0720b941a6f5e0a0f70be7af1f1ee98fcd118e7dc612fd53725aef5e76125985df7d97cf59c5db1a0dc77619ad2ec68e9df226a277774d401137117b914afdb4af3888982f48b2ffff8697061e67",
	"f102b4d2e9c16b418b3d2af0bb67b0cf3266b3aa1bea34a17e7b9a8bc79ca9fe418b4cc2c2226bcde9dacf1540abeb115b79101fd759f0addf62f2251a506b838f19c8d9b4e780975de256dfdcd3aea2c75b0be8cc13bccca4de2a94e4af18da3065736f3d2955a94eeb47e1191cec48f2992b68638020a960973be787ba92cf",
	"b107250eaec705ac6652fff7baa15d838e45dac42fe30a870786d8f130bfc15f3406fe3c92f9d4e0251926ff1180b0d9e67371219ff8c7463c59acf2961b0379fdb01372723e80ee80387826e9526e67ecb22911529b530bc85eff584a33f65ef349f2119067c63c531647a57475039d7a2b95a670ae126efb5de5cfca8b4467",
	"e0f1e9d49f6fff2dc429ccabffb347d66c9a8cc07b42a7ac52d61a3ff62fd8b556a33b785a5b95ad5c8b54267df39581e0ac3501e485f63efab5abac857e50c900830d982fadd48a24ffd68198e9b0799bbbe6df9d44cb82d38c7136b4324bd4667cd38719250b6e99553fb6034ebb2f655e1bada07c9fff5c2bd1b1d166755b",
	"a3a358a8a482f53d1b80f8856e0091d39a02634684ce8b4c099f326f4f546082ff327056b14ea917fc5348d9e03c62d3892f10dd63b187526e0cbc0cbdc58e1e663848d83e32b244cd41bf81867af6c61c3628140a6ca4ba8ba6d2b185bd421c373b65cd12397b3881bf6c6301a76cc39068063bb7a1d49662a8d01a30239517",
	"e701bc6b57a9df614b6c946b22ad0e8b6580b106098e9e53ec231dd39bf2b6810ac1b31382764bb48a76c19a2d9b9474d00553f54377b375fd0b8a9fd805ce43eb3a396318f919375d29f1e990e07ec39393af990ef115430b8f3fcd4fb11597ed6b2f3c1ab80b0ff8e047fb31b50f32fcdee4276cd4fe57deda0f38c0c65693",
	"cb4311daa7df3e62bd8eec1d320d7fd24bff957657dd094f843ecc4b2f4bee95cc4d24e8b42eadfd9fe026f9e77d822cc1e561edb2e8d81aa747921e1cb05df7460bf5ccebd10955a4de6820a5aa323d24d72779d64f9c9e474d3b7885e3bc48a30a6cfc756062dea154e297d5efa62cce945eccfb0e135e9e7d56659327705b",
}

func testPrime(i int) *saferith.Nat {
	data, err := hex.DecodeString(primeHex[i%len(primeHex)])
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(data)
}

// GenerateConfig returns a valid set of key shares for N parties with
// the given signing threshold, as if a key generation had just
// completed. The Paillier keys come from a fixed prime pool, everything
// else is sampled from source.
func GenerateConfig(group curve.Curve, N, T int, source io.Reader, pl *pool.Pool) (map[party.ID]*config.Config, party.IDSlice) {
	if 2*N > len(primeHex) {
		panic("test: not enough primes for the requested number of parties")
	}

	partyIDs := PartyIDs(N)
	f := polynomial.NewPolynomial(group, T-1, sample.Scalar(source, group))

	rid, err := types.NewRID(source)
	if err != nil {
		panic(err)
	}
	chainKey, err := types.NewRID(source)
	if err != nil {
		panic(err)
	}

	shares := make(map[party.ID]curve.Scalar, N)
	public := make(map[party.ID]*config.Public, N)
	secrets := make(map[party.ID]*paillier.SecretKey, N)

	lockedSource := pool.NewLockedReader(source)
	type auxOut struct {
		sk  *paillier.SecretKey
		ped *config.Public
	}
	outs := pl.Parallelize(N, func(i int) interface{} {
		sk := paillier.NewSecretKeyFromPrimes(testPrime(2*i), testPrime(2*i+1))
		ped, _ := sk.GeneratePedersen(lockedSource)
		return auxOut{sk: sk, ped: &config.Public{
			Paillier: sk.PublicKey,
			Pedersen: ped,
		}}
	})

	for i, o := range outs {
		a := o.(auxOut)
		secrets[partyIDs[i]] = a.sk
		public[partyIDs[i]] = a.ped
	}
	for _, id := range partyIDs {
		shares[id] = f.Evaluate(id.Scalar(group))
		public[id].ECDSA = shares[id].ActOnBase()
	}

	configs := make(map[party.ID]*config.Config, N)
	for _, id := range partyIDs {
		clonedPublic := make(map[party.ID]*config.Public, N)
		for j, p := range public {
			clonedPublic[j] = &config.Public{
				ECDSA:    p.ECDSA,
				Paillier: p.Paillier,
				Pedersen: p.Pedersen,
			}
		}
		configs[id] = &config.Config{
			Group:     group,
			ID:        id,
			Threshold: T,
			ECDSA:     shares[id],
			Paillier:  secrets[id],
			RID:       rid.Copy(),
			ChainKey:  chainKey.Copy(),
			Public:    clonedPublic,
		}
	}
	return configs, partyIDs
}
