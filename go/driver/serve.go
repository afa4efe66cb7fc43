// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"os"

	"github.com/Fantom-foundation/Fidelio/go/scenario"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var ServeCmd = cli.Command{
	Action: doServe,
	Name:   "serve",
	Usage:  "Serve as the backend of an exec runner, reading steps from stdin and replying on stdout",
}

func doServe(context *cli.Context) error {
	// Standard output carries the replies, dumps go to standard error.
	runner, err := scenario.NewMockRunner(scenario.Config{DumpWriter: os.Stderr})
	if err != nil {
		return err
	}
	log.Info("Serving steps", "pid", os.Getpid())
	if err := scenario.Serve(runner, context.App.Reader, context.App.Writer); err != nil {
		return err
	}
	log.Info("Session ended", "state", runner.State())
	return nil
}
