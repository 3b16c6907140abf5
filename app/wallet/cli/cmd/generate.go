package cmd

import (
	"crypto/ed25519"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ravenlabs/blockchain/foundation/keystore"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	_, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		log.Fatal(err)
	}

	if err := keystore.WriteKeyFile(privateKeyPath(), privateKey); err != nil {
		log.Fatal(err)
	}

	fmt.Println("wrote", privateKeyPath())
}
