package utils

import (
	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/pkg/errors"
)

// GetInputBytes converts input to byte slice. With or without the signature.
func GetInputBytes(input *model.Input, withSig bool) ([]byte, error) {
	var data []byte
	prevHash, err := HexToBytes(input.PrevTxHash)
	if err != nil {
		return nil, err
	}
	data = append(data, prevHash...)
	data = append(data, Int64ToBytes(input.Index)...)
	if withSig {
		data = append(data, Int64ToBytes(int64(len(input.Signature)))...)
		data = append(data, input.Signature...)
	}
	return data, nil
}

// GetOutputBytes converts output to byte slice. The key is length prefixed so that
// consecutive outputs can't be confused with each other.
func GetOutputBytes(output *model.Output) []byte {
	var data []byte
	data = append(data, Float64ToBytes(output.Value)...)
	data = append(data, Int64ToBytes(int64(len(output.PublicKey)))...)
	data = append(data, output.PublicKey...)
	return data
}

// Concat all inputs (optionally including signature) and outputs raw data in byte slices.
func GetTransactionBytes(t *model.Transaction, withSig bool) ([]byte, error) {
	var data []byte
	for i, input := range t.Inputs {
		if input == nil {
			return nil, errors.Errorf("input %d is nil", i)
		}
		inputData, err := GetInputBytes(input, withSig)
		if err != nil {
			return nil, err
		}
		data = append(data, inputData...)
	}

	for i, output := range t.Outputs {
		if output == nil {
			return nil, errors.Errorf("output %d is nil", i)
		}
		data = append(data, GetOutputBytes(output)...)
	}
	return data, nil
}

// GetRawDataToSign returns the bytes the owner of input index signs: that input's
// reference (without any signature) followed by every output.
func GetRawDataToSign(t *model.Transaction, index int) ([]byte, error) {
	if index < 0 || index >= len(t.Inputs) {
		return nil, errors.Errorf("input index %d is out of the range [0, %d)", index, len(t.Inputs))
	}
	input := t.Inputs[index]
	if input == nil {
		return nil, errors.Errorf("input %d is nil", index)
	}
	// Don't include signature since we haven't signed it yet.
	data, err := GetInputBytes(input, false /*withSig=*/)
	if err != nil {
		return nil, err
	}

	for i, output := range t.Outputs {
		if output == nil {
			return nil, errors.Errorf("output %d is nil", i)
		}
		data = append(data, GetOutputBytes(output)...)
	}
	return data, nil
}

// GetTransactionHash computes the identity of a transaction: hex SHA256 over all of its
// content, signatures included.
func GetTransactionHash(t *model.Transaction) (string, error) {
	data, err := GetTransactionBytes(t, true /*withSig=*/)
	if err != nil {
		return "", err
	}
	return BytesToHex(SHA256(data)), nil
}

// FinalizeTransaction fills in the transaction hash. Must be called after every input is signed.
func FinalizeTransaction(t *model.Transaction) error {
	hash, err := GetTransactionHash(t)
	if err != nil {
		return errors.Wrap(err, "failed to hash transaction")
	}
	t.Hash = hash
	return nil
}
