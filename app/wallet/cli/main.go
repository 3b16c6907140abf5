package main

import "github.com/ravenlabs/blockchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
