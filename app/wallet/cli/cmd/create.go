package cmd

import (
	"crypto/ed25519"
	"log"

	"github.com/spf13/cobra"

	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register the wallet's account on the chain",
	Run:   createRun,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	createCmd.Flags().StringVarP(&from, "id", "i", "", "Account id to register.")
}

func createRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	publicKey, err := ledger.ToPublicKey(privateKey.Public().(ed25519.PublicKey))
	if err != nil {
		log.Fatal(err)
	}

	tx := ledger.NewTx(ledger.CreateAccount{
		AccountID: ledger.AccountID(from),
		PublicKey: publicKey,
	}, "")

	if err := submitTx(tx); err != nil {
		log.Fatal(err)
	}
}
