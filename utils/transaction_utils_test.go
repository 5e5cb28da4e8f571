package utils

import (
	"testing"

	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTransaction() *model.Transaction {
	return &model.Transaction{
		Inputs: []*model.Input{
			{PrevTxHash: "00ab", Index: 0, Signature: []byte{1, 1}},
			{PrevTxHash: "00cd", Index: 3, Signature: []byte{2, 2}},
		},
		Outputs: []*model.Output{
			{Value: 4, PublicKey: []byte{7, 7}},
			{Value: 1.5, PublicKey: []byte{8}},
		},
	}
}

func TestGetRawDataToSign(t *testing.T) {
	tx := createTestTransaction()

	var expected []byte
	expected = append(expected, 0x00, 0xcd)
	expected = append(expected, Int64ToBytes(3)...)
	expected = append(expected, GetOutputBytes(tx.Outputs[0])...)
	expected = append(expected, GetOutputBytes(tx.Outputs[1])...)

	actual, err := GetRawDataToSign(tx, 1)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	_, err = GetRawDataToSign(tx, 2)
	assert.Error(t, err)
	_, err = GetRawDataToSign(tx, -1)
	assert.Error(t, err)
}

func TestRawDataToSignIgnoresSignatures(t *testing.T) {
	tx := createTestTransaction()
	before, err := GetRawDataToSign(tx, 0)
	require.NoError(t, err)

	tx.Inputs[0].Signature = []byte{9, 9, 9}
	tx.Inputs[1].Signature = nil
	after, err := GetRawDataToSign(tx, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTransactionHashCoversSignatures(t *testing.T) {
	tx := createTestTransaction()
	require.NoError(t, FinalizeTransaction(tx))
	assert.Len(t, tx.Hash, 64)

	again, err := GetTransactionHash(tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash, again)

	tx.Inputs[0].Signature = []byte{1, 2}
	changed, err := GetTransactionHash(tx)
	require.NoError(t, err)
	assert.NotEqual(t, tx.Hash, changed)
}

func TestTransactionBytesRejectsBadInput(t *testing.T) {
	tx := createTestTransaction()
	tx.Inputs[0].PrevTxHash = "zz"
	_, err := GetTransactionBytes(tx, true)
	assert.Error(t, err)

	tx = createTestTransaction()
	tx.Outputs = append(tx.Outputs, nil)
	_, err = GetTransactionHash(tx)
	assert.Error(t, err)
}
