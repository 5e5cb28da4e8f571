// Package snapshot reads and writes ledger snapshots and transaction batches as CBOR.
// Encoding is deterministic: the same ledger always produces the same bytes.
package snapshot

import (
	"io"

	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/Luismorlan/scrooge_coin/utils"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

const formatVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrHashMismatch       = errors.New("transaction hash doesn't match its content")
	ErrDuplicateUtxo      = errors.New("utxo listed twice in snapshot")
)

type utxoEntry struct {
	PrevTxHash string  `cbor:"1,keyasint"`
	Index      int64   `cbor:"2,keyasint"`
	Value      float64 `cbor:"3,keyasint"`
	PublicKey  []byte  `cbor:"4,keyasint"`
}

type ledgerFile struct {
	Version uint        `cbor:"1,keyasint"`
	Utxos   []utxoEntry `cbor:"2,keyasint"`
}

type inputEntry struct {
	PrevTxHash string `cbor:"1,keyasint"`
	Index      int64  `cbor:"2,keyasint"`
	Signature  []byte `cbor:"3,keyasint"`
}

type outputEntry struct {
	Value     float64 `cbor:"1,keyasint"`
	PublicKey []byte  `cbor:"2,keyasint"`
}

type txEntry struct {
	Hash    string        `cbor:"1,keyasint"`
	Inputs  []inputEntry  `cbor:"2,keyasint"`
	Outputs []outputEntry `cbor:"3,keyasint"`
}

type batchFile struct {
	Version uint      `cbor:"1,keyasint"`
	Txs     []txEntry `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// WriteLedger encodes every UTXO of l, sorted, to w.
func WriteLedger(w io.Writer, l *model.Ledger) error {
	f := ledgerFile{Version: formatVersion}
	for _, utxo := range l.Utxos() {
		output := l.L[utxo]
		f.Utxos = append(f.Utxos, utxoEntry{
			PrevTxHash: utxo.PrevTxHash,
			Index:      utxo.Index,
			Value:      output.Value,
			PublicKey:  output.PublicKey,
		})
	}
	if err := encMode.NewEncoder(w).Encode(f); err != nil {
		return errors.Wrap(err, "failed to encode ledger")
	}
	return nil
}

func ReadLedger(r io.Reader) (*model.Ledger, error) {
	var f ledgerFile
	if err := decMode.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode ledger")
	}
	if f.Version != formatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "ledger version %d", f.Version)
	}
	l := model.NewLedger()
	for _, e := range f.Utxos {
		utxo := model.UTXO{PrevTxHash: e.PrevTxHash, Index: e.Index}
		if l.Contains(utxo) {
			return nil, errors.Wrapf(ErrDuplicateUtxo, "%s:%d", e.PrevTxHash, e.Index)
		}
		l.Add(utxo, model.Output{Value: e.Value, PublicKey: e.PublicKey})
	}
	return l, nil
}

// WriteBatch encodes txs in the given order.
func WriteBatch(w io.Writer, txs []*model.Transaction) error {
	f := batchFile{Version: formatVersion}
	for _, tx := range txs {
		e := txEntry{Hash: tx.Hash}
		for _, in := range tx.Inputs {
			e.Inputs = append(e.Inputs, inputEntry{PrevTxHash: in.PrevTxHash, Index: in.Index, Signature: in.Signature})
		}
		for _, out := range tx.Outputs {
			e.Outputs = append(e.Outputs, outputEntry{Value: out.Value, PublicKey: out.PublicKey})
		}
		f.Txs = append(f.Txs, e)
	}
	if err := encMode.NewEncoder(w).Encode(f); err != nil {
		return errors.Wrap(err, "failed to encode batch")
	}
	return nil
}

// ReadBatch decodes a batch. Every transaction's hash is recomputed and must match the stored one.
func ReadBatch(r io.Reader) ([]*model.Transaction, error) {
	var f batchFile
	if err := decMode.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode batch")
	}
	if f.Version != formatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "batch version %d", f.Version)
	}
	txs := make([]*model.Transaction, 0, len(f.Txs))
	for i, e := range f.Txs {
		tx := &model.Transaction{Hash: e.Hash}
		for _, in := range e.Inputs {
			tx.Inputs = append(tx.Inputs, &model.Input{PrevTxHash: in.PrevTxHash, Index: in.Index, Signature: in.Signature})
		}
		for _, out := range e.Outputs {
			tx.Outputs = append(tx.Outputs, &model.Output{Value: out.Value, PublicKey: out.PublicKey})
		}
		hash, err := utils.GetTransactionHash(tx)
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d", i)
		}
		if hash != tx.Hash {
			return nil, errors.Wrapf(ErrHashMismatch, "transaction %d: stored %s, computed %s", i, tx.Hash, hash)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
