package main

import (
	"fmt"

	"github.com/Luismorlan/scrooge_coin/full_node"
	"github.com/Luismorlan/scrooge_coin/snapshot"
	"github.com/urfave/cli/v2"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "run one epoch of a batch file against a ledger file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ledger", Usage: "ledger snapshot to start from", Required: true},
			&cli.StringFlag{Name: "batch", Usage: "batch of proposed transactions", Required: true},
			&cli.StringFlag{Name: "ledger-out", Usage: "write the resulting ledger to this file"},
		},
		Action: runReplay,
	}
}

func runReplay(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	ledger, err := snapshot.LoadLedgerFile(c.String("ledger"))
	if err != nil {
		return err
	}
	batch, err := snapshot.LoadBatchFile(c.String("batch"))
	if err != nil {
		return err
	}

	node, err := full_node.NewFullNode(cfg, ledger, log)
	if err != nil {
		return err
	}
	for _, tx := range batch {
		if err := node.AddTransactionToPool(tx); err != nil {
			log.Warn().Err(err).Msg("transaction not queued")
		}
	}
	for _, tx := range node.ProcessEpoch() {
		fmt.Fprintln(c.App.Writer, tx.Hash)
	}

	if path := c.String("ledger-out"); path != "" {
		return snapshot.SaveLedgerFile(node.GetLedgerSnapshot(), path)
	}
	return nil
}
