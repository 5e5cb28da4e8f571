package snapshot

import (
	"os"

	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/pkg/errors"
)

func SaveLedgerFile(l *model.Ledger, fPath string) error {
	f, err := os.Create(fPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", fPath)
	}
	defer f.Close()
	if err := WriteLedger(f, l); err != nil {
		return errors.Wrapf(err, "failed to save ledger in %s", fPath)
	}
	return f.Close()
}

func LoadLedgerFile(fPath string) (*model.Ledger, error) {
	f, err := os.Open(fPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %s", fPath)
	}
	defer f.Close()
	return ReadLedger(f)
}

func SaveBatchFile(txs []*model.Transaction, fPath string) error {
	f, err := os.Create(fPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", fPath)
	}
	defer f.Close()
	if err := WriteBatch(f, txs); err != nil {
		return errors.Wrapf(err, "failed to save batch in %s", fPath)
	}
	return f.Close()
}

func LoadBatchFile(fPath string) ([]*model.Transaction, error) {
	f, err := os.Open(fPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %s", fPath)
	}
	defer f.Close()
	return ReadBatch(f)
}
