// Command cggmp-cli runs the threshold ECDSA protocols as in-process
// multi-party simulations: every party lives in its own goroutine and
// messages travel over an in-memory network.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultsig/cggmp21/pkg/ecdsa"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
)

var (
	configDir string
	parties   int
	threshold int
	verbose   bool

	rootCmd = &cobra.Command{
		Use:   "cggmp-cli",
		Short: "Threshold ECDSA key generation and signing",
		Long: `cggmp-cli simulates the threshold ECDSA protocols locally. Key shares
are written to the config directory, one file per party, and a signing
run loads the shares of the chosen signers.`,
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate key shares for all parties",
		RunE:  runKeygen,
	}

	refreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "Refresh all key shares, keeping the public key",
		RunE:  runRefresh,
	}

	signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign a message with a subset of parties",
		RunE:  runSign,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature against the stored public key",
		RunE:  runVerify,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Time keygen, refresh and signing",
		RunE:  runBench,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "d", "./cggmp-data", "directory for key shares")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	keygenCmd.Flags().IntVarP(&parties, "parties", "n", 3, "number of parties")
	keygenCmd.Flags().IntVarP(&threshold, "threshold", "t", 2, "minimum number of signers")

	signCmd.Flags().StringSlice("signers", nil, "signer IDs (default: the first threshold parties)")
	signCmd.Flags().String("message", "", "message to sign (hex encoded)")
	signCmd.Flags().String("message-file", "", "file containing the message to sign")
	signCmd.Flags().StringP("output", "o", "", "signature output file")

	verifyCmd.Flags().String("signature", "signature.json", "signature file")
	verifyCmd.Flags().String("message", "", "message (hex encoded)")
	verifyCmd.Flags().String("message-file", "", "file containing the message")

	benchCmd.Flags().Int("iterations", 5, "iterations per operation")
	benchCmd.Flags().String("seed", "", "32-byte hex seed for reproducible messages")

	rootCmd.AddCommand(keygenCmd, refreshCmd, signCmd, verifyCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func partyIDs(n int) []party.ID {
	ids := make([]party.ID, n)
	for i := 0; i < n; i++ {
		ids[i] = party.ID(fmt.Sprintf("party-%d", i+1))
	}
	return ids
}

func sharePath(id party.ID) string {
	return filepath.Join(configDir, fmt.Sprintf("%s.share", id))
}

func publicKeyPath() string {
	return filepath.Join(configDir, "public.key")
}

// signatureFile is the on-disk signature representation.
type signatureFile struct {
	R string `json:"r"`
	S string `json:"s"`
}

func writeSignature(path string, sig *ecdsa.Signature) error {
	rBytes, err := sig.R.MarshalBinary()
	if err != nil {
		return err
	}
	sBytes, err := sig.S.MarshalBinary()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(signatureFile{
		R: hex.EncodeToString(rBytes),
		S: hex.EncodeToString(sBytes),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readSignature(path string, group curve.Curve) (*ecdsa.Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f signatureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	rBytes, err := hex.DecodeString(f.R)
	if err != nil {
		return nil, err
	}
	sBytes, err := hex.DecodeString(f.S)
	if err != nil {
		return nil, err
	}
	sig := ecdsa.EmptySignature(group)
	if err := sig.R.UnmarshalBinary(rBytes); err != nil {
		return nil, err
	}
	if err := sig.S.UnmarshalBinary(sBytes); err != nil {
		return nil, err
	}
	return &sig, nil
}

func messageFromFlags(cmd *cobra.Command) ([]byte, error) {
	if msgFile, _ := cmd.Flags().GetString("message-file"); msgFile != "" {
		return os.ReadFile(msgFile)
	}
	if msgHex, _ := cmd.Flags().GetString("message"); msgHex != "" {
		return hex.DecodeString(msgHex)
	}
	return nil, fmt.Errorf("either --message or --message-file must be given")
}
