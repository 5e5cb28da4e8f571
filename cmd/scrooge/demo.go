package main

import (
	"fmt"

	"github.com/Luismorlan/scrooge_coin/full_node"
	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/Luismorlan/scrooge_coin/signature"
	"github.com/Luismorlan/scrooge_coin/snapshot"
	"github.com/Luismorlan/scrooge_coin/utils"
	"github.com/Luismorlan/scrooge_coin/wallet"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "run one epoch over a generated batch with a chain, a double spend and a forged transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "genesis-out", Usage: "write the generated genesis ledger to this file"},
			&cli.StringFlag{Name: "batch-out", Usage: "write the generated batch to this file"},
		},
		Action: runDemo,
	}
}

type demoScenario struct {
	genesis *model.Ledger
	batch   []*model.Transaction
	wallets map[string]*wallet.Wallet
}

// buildDemoScenario gives alice 10 coins and builds, in submission order:
// bob paying carol with coins alice hasn't sent him yet, alice paying bob,
// alice paying carol with the same coins, and a tampered copy of alice's payment to bob.
func buildDemoScenario(scheme signature.Scheme, rsaBits int) (*demoScenario, error) {
	s := &demoScenario{
		genesis: model.NewLedger(),
		wallets: make(map[string]*wallet.Wallet),
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		signer, err := signature.GenerateSigner(scheme, rsaBits)
		if err != nil {
			return nil, err
		}
		s.wallets[name] = wallet.NewWallet(signer)
	}
	alice, bob, carol := s.wallets["alice"], s.wallets["bob"], s.wallets["carol"]

	s.genesis.Add(
		model.UTXO{PrevTxHash: utils.BytesToHex(utils.SHA256([]byte("genesis"))), Index: 0},
		model.Output{Value: 10, PublicKey: alice.PublicKey()},
	)
	alice.SyncFromLedger(s.genesis)

	toBob, err := alice.TransferMoney(utils.BytesToHex(bob.PublicKey()), 6)
	if err != nil {
		return nil, err
	}
	afterToBob := s.genesis.Copy()
	if err := utils.ApplyTransaction(toBob, afterToBob); err != nil {
		return nil, err
	}
	bob.SyncFromLedger(afterToBob)
	fromBob, err := bob.TransferMoney(utils.BytesToHex(carol.PublicKey()), 2)
	if err != nil {
		return nil, err
	}

	alice.SyncFromLedger(s.genesis)
	doubleSpend, err := alice.TransferMoney(utils.BytesToHex(carol.PublicKey()), 10)
	if err != nil {
		return nil, err
	}

	forged := &model.Transaction{Inputs: toBob.Inputs}
	for _, out := range toBob.Outputs {
		forged.Outputs = append(forged.Outputs, &model.Output{Value: out.Value, PublicKey: carol.PublicKey()})
	}
	if err := utils.FinalizeTransaction(forged); err != nil {
		return nil, err
	}

	s.batch = []*model.Transaction{fromBob, toBob, doubleSpend, forged}
	return s, nil
}

func runDemo(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	s, err := buildDemoScenario(cfg.Scheme(), cfg.RSAKeyBits)
	if err != nil {
		return errors.Wrap(err, "failed to build demo scenario")
	}
	if path := c.String("genesis-out"); path != "" {
		if err := snapshot.SaveLedgerFile(s.genesis, path); err != nil {
			return err
		}
	}
	if path := c.String("batch-out"); path != "" {
		if err := snapshot.SaveBatchFile(s.batch, path); err != nil {
			return err
		}
	}

	node, err := full_node.NewFullNode(cfg, s.genesis, log)
	if err != nil {
		return err
	}
	for _, tx := range s.batch {
		if err := node.AddTransactionToPool(tx); err != nil {
			log.Warn().Err(err).Msg("transaction not queued")
		}
	}
	accepted := node.ProcessEpoch()

	for _, tx := range accepted {
		fmt.Fprintf(c.App.Writer, "accepted %s\n", tx.Hash)
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		_, balance := node.GetBalance(s.wallets[name].PublicKey())
		fmt.Fprintf(c.App.Writer, "%s %v\n", name, balance)
	}
	return nil
}
