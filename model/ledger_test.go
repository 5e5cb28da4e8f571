package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLedger() *Ledger {
	l := NewLedger()
	l.Add(UTXO{PrevTxHash: "00ab", Index: 0}, Output{Value: 10, PublicKey: []byte{1, 2, 3}})
	l.Add(UTXO{PrevTxHash: "00ab", Index: 1}, Output{Value: 2.5, PublicKey: []byte{4, 5, 6}})
	l.Add(UTXO{PrevTxHash: "00cd", Index: 0}, Output{Value: 7, PublicKey: []byte{1, 2, 3}})
	return l
}

func TestLedgerGetAndContains(t *testing.T) {
	l := createTestLedger()

	utxo := UTXO{PrevTxHash: "00ab", Index: 1}
	assert.True(t, l.Contains(utxo))
	output, err := l.Get(utxo)
	require.NoError(t, err)
	assert.Equal(t, 2.5, output.Value)

	missing := UTXO{PrevTxHash: "00ab", Index: 2}
	assert.False(t, l.Contains(missing))
	_, err = l.Get(missing)
	assert.True(t, errors.Is(err, ErrUtxoNotFound))
}

func TestLedgerAddOverwrites(t *testing.T) {
	l := createTestLedger()
	utxo := UTXO{PrevTxHash: "00cd", Index: 0}
	l.Add(utxo, Output{Value: 1, PublicKey: []byte{9}})

	output, err := l.Get(utxo)
	require.NoError(t, err)
	assert.Equal(t, 1.0, output.Value)
	assert.Equal(t, 3, l.Len())
}

func TestLedgerRemove(t *testing.T) {
	l := createTestLedger()
	utxo := UTXO{PrevTxHash: "00ab", Index: 0}

	require.NoError(t, l.Remove(utxo))
	assert.False(t, l.Contains(utxo))
	assert.Equal(t, 2, l.Len())

	// Removing twice is a contract violation and must surface.
	err := l.Remove(utxo)
	assert.True(t, errors.Is(err, ErrUtxoNotFound))
	assert.Equal(t, 2, l.Len())
}

func TestLedgerCopyIsIndependent(t *testing.T) {
	l := createTestLedger()
	c := l.Copy()
	assert.Equal(t, l.Utxos(), c.Utxos())

	require.NoError(t, c.Remove(UTXO{PrevTxHash: "00ab", Index: 0}))
	c.Add(UTXO{PrevTxHash: "00ef", Index: 0}, Output{Value: 3})
	assert.Equal(t, 3, l.Len())
	assert.True(t, l.Contains(UTXO{PrevTxHash: "00ab", Index: 0}))
	assert.False(t, l.Contains(UTXO{PrevTxHash: "00ef", Index: 0}))

	// Output bytes must not be shared either.
	copied, err := c.Get(UTXO{PrevTxHash: "00cd", Index: 0})
	require.NoError(t, err)
	copied.PublicKey[0] = 42
	original, err := l.Get(UTXO{PrevTxHash: "00cd", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, original.PublicKey)

	l.Add(UTXO{PrevTxHash: "0011", Index: 0}, Output{Value: 1})
	assert.False(t, c.Contains(UTXO{PrevTxHash: "0011", Index: 0}))
}

func TestLedgerUtxosSorted(t *testing.T) {
	l := createTestLedger()
	assert.Equal(t, []UTXO{
		{PrevTxHash: "00ab", Index: 0},
		{PrevTxHash: "00ab", Index: 1},
		{PrevTxHash: "00cd", Index: 0},
	}, l.Utxos())
	assert.Equal(t, 19.5, l.TotalValue())
}

func TestLedgerFilterByPublicKey(t *testing.T) {
	l := createTestLedger()
	mine := l.FilterByPublicKey([]byte{1, 2, 3})
	assert.Equal(t, 2, mine.Len())
	assert.Equal(t, 17.0, mine.TotalValue())
	assert.Equal(t, 0, l.FilterByPublicKey([]byte{7}).Len())
}

func TestTransactionPoolKeepsArrivalOrder(t *testing.T) {
	p := NewTransactionPool()
	a := &Transaction{Hash: "0a"}
	b := &Transaction{Hash: "0b"}
	c := &Transaction{Hash: "0c"}

	assert.True(t, p.Add(b))
	assert.True(t, p.Add(a))
	assert.True(t, p.Add(c))
	assert.False(t, p.Add(&Transaction{Hash: "0a"}))
	assert.Equal(t, []*Transaction{b, a, c}, p.All())

	p.Remove("0a")
	p.Remove("ff")
	assert.Equal(t, []*Transaction{b, c}, p.All())
	assert.Equal(t, 2, p.Len())
	assert.False(t, p.Has("0a"))
}
