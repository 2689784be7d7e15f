// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "piggybank-cli" deploys and drives piggy bank contracts on a local ledger.
package main

import (
	"context"
	"os"

	"github.com/ava-labs/piggybank/cmd/piggybank-cli/cmd"
	"github.com/ava-labs/piggybank/utils"
)

func main() {
	if err := cmd.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		utils.Outf("{{red}}piggybank-cli exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
