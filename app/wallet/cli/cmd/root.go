// Package cmd contains the wallet commands.
package cmd

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ravenlabs/blockchain/foundation/keystore"
)

var (
	accountName string
	accountPath string
	url         string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "A simple wallet for the raven chain",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func privateKeyPath() string {
	name := accountName
	if !strings.HasSuffix(name, keystore.KeyExt) {
		name += keystore.KeyExt
	}

	return filepath.Join(accountPath, name)
}

func loadPrivateKey() (ed25519.PrivateKey, error) {
	return keystore.ReadKeyFile(privateKeyPath())
}
