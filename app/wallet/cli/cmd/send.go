package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

var (
	nonce  uint64
	from   string
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a signed transfer to the node",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().Uint64VarP(&nonce, "nonce", "n", 0, "Unique id for the transaction.")
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Account sending the funds.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the funds.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	tx := ledger.NewTx(ledger.Transfer{
		To:     ledger.AccountID(to),
		Amount: uint256.NewInt(amount),
	}, ledger.AccountID(from))
	tx.Nonce = nonce
	tx.Sign(privateKey)

	if err := submitTx(tx); err != nil {
		log.Fatal(err)
	}
}

// submitTx posts the wire form of the transaction to the node.
func submitTx(tx ledger.Tx) error {
	data, err := json.Marshal(block.NewTxData(tx))
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node returned status %s", resp.Status)
		}
		return fmt.Errorf("node returned status %s: %s", resp.Status, er.Error)
	}

	return nil
}
