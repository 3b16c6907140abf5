package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

type account struct {
	Account string       `json:"account"`
	Kind    string       `json:"kind"`
	Balance *uint256.Int `json:"balance"`
}

type accounts struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Accounts    []account `json:"accounts"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance of an account",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	balanceCmd.Flags().StringVarP(&from, "id", "i", "", "Account id to query.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/accounts/list/%s", url, from))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node returned status %s", resp.Status)
	}

	var accounts accounts
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		log.Fatal(err)
	}

	if len(accounts.Accounts) > 0 {
		fmt.Println(accounts.Accounts[0].Balance)
	}
}
