package utils

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/pkg/errors"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func HexToBytes(str string) ([]byte, error) {
	bytes, err := hex.DecodeString(str)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex string %q", str)
	}
	return bytes, nil
}

// Int64ToBytes encodes i as 8 big-endian bytes.
func Int64ToBytes(i int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}

func Float64ToBytes(f float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	return b
}
