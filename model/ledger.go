package model

import (
	"bytes"
	"sort"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// ErrUtxoNotFound is returned when a UTXO is looked up or removed but is not in the ledger.
var ErrUtxoNotFound = errors.New("utxo not found in ledger")

// Unspent transaction output. All UTXO are aggregated as a ledger.
type UTXO struct {
	// Hex string of the transaction.
	PrevTxHash string
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index int64
}

// Ledger is simply a pool of UTXO. A UTXO is present iff the output it names was created by an
// accepted transaction and has not been consumed by another one.
type Ledger struct {
	L map[UTXO]Output
}

func NewLedger() *Ledger {
	return &Ledger{
		L: make(map[UTXO]Output),
	}
}

// Copy returns a deep copy of the ledger. Mutating either ledger afterwards doesn't affect the other.
func (l *Ledger) Copy() *Ledger {
	c := NewLedger()
	for utxo, output := range l.L {
		var o Output
		if err := copier.CopyWithOption(&o, &output, copier.Option{DeepCopy: true}); err != nil {
			// copier only fails on mismatched types, which can't happen here.
			panic(errors.Wrap(err, "failed to deep copy ledger output"))
		}
		c.L[utxo] = o
	}
	return c
}

func (l *Ledger) Contains(utxo UTXO) bool {
	_, ok := l.L[utxo]
	return ok
}

// Get returns the output the utxo refers to, or ErrUtxoNotFound.
func (l *Ledger) Get(utxo UTXO) (Output, error) {
	output, ok := l.L[utxo]
	if !ok {
		return Output{}, errors.Wrapf(ErrUtxoNotFound, "%s:%d", utxo.PrevTxHash, utxo.Index)
	}
	return output, nil
}

// Add inserts or overwrites the output for utxo.
func (l *Ledger) Add(utxo UTXO, output Output) {
	l.L[utxo] = output
}

// Remove deletes utxo. Removing an absent utxo is a caller bug and returns ErrUtxoNotFound.
func (l *Ledger) Remove(utxo UTXO) error {
	if !l.Contains(utxo) {
		return errors.Wrapf(ErrUtxoNotFound, "%s:%d", utxo.PrevTxHash, utxo.Index)
	}
	delete(l.L, utxo)
	return nil
}

func (l *Ledger) Len() int {
	return len(l.L)
}

// Utxos returns all UTXOs sorted by transaction hash, then index.
func (l *Ledger) Utxos() []UTXO {
	utxos := make([]UTXO, 0, len(l.L))
	for utxo := range l.L {
		utxos = append(utxos, utxo)
	}
	sort.Slice(utxos, func(i, j int) bool {
		if utxos[i].PrevTxHash != utxos[j].PrevTxHash {
			return utxos[i].PrevTxHash < utxos[j].PrevTxHash
		}
		return utxos[i].Index < utxos[j].Index
	})
	return utxos
}

// TotalValue sums the value of every unspent output.
func (l *Ledger) TotalValue() float64 {
	total := 0.0
	for _, utxo := range l.Utxos() {
		total += l.L[utxo].Value
	}
	return total
}

// FilterByPublicKey returns a new ledger holding only the outputs owned by pk.
func (l *Ledger) FilterByPublicKey(pk []byte) *Ledger {
	res := NewLedger()
	for utxo, output := range l.L {
		if bytes.Equal(output.PublicKey, pk) {
			res.L[utxo] = Output{
				Value:     output.Value,
				PublicKey: append([]byte(nil), output.PublicKey...),
			}
		}
	}
	return res
}
