package utils

import (
	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/pkg/errors"
)

// ApplyTransaction changes the ledger as the transaction dictates:
// 1. Claim every input.
// 2. Store every output under (tx hash, output index).
// Every input must be in the ledger; otherwise nothing is changed and ErrUtxoNotFound is returned.
// The transaction is not validated here, callers do that first.
func ApplyTransaction(tx *model.Transaction, l *model.Ledger) error {
	seen := make(map[model.UTXO]bool)
	for _, input := range tx.Inputs {
		utxo := input.UTXO()
		if !l.Contains(utxo) || seen[utxo] {
			return errors.Wrapf(model.ErrUtxoNotFound, "tx %s claims %s:%d", tx.Hash, input.PrevTxHash, input.Index)
		}
		seen[utxo] = true
	}
	for i, output := range tx.Outputs {
		if output == nil {
			return errors.Errorf("tx %s: output %d is nil", tx.Hash, i)
		}
	}

	// Claim every input
	for utxo := range seen {
		if err := l.Remove(utxo); err != nil {
			return errors.Wrapf(err, "tx %s", tx.Hash)
		}
	}

	// Store every output
	for i, output := range tx.Outputs {
		utxo := model.UTXO{
			PrevTxHash: tx.Hash,
			Index:      int64(i),
		}
		l.Add(utxo, *output)
	}
	return nil
}
