package signature

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemes(t *testing.T) {
	for _, scheme := range []Scheme{RSAPSS, Ed25519} {
		t.Run(string(scheme), func(t *testing.T) {
			signer, err := GenerateSigner(scheme, 2048)
			require.NoError(t, err)
			verifier, err := NewVerifier(scheme)
			require.NoError(t, err)

			msg := []byte("pay 10 to bob")
			sig, err := signer.Sign(msg)
			require.NoError(t, err)

			assert.True(t, verifier.Verify(signer.PublicKey(), msg, sig))
			assert.False(t, verifier.Verify(signer.PublicKey(), []byte("pay 11 to bob"), sig))

			other, err := GenerateSigner(scheme, 2048)
			require.NoError(t, err)
			assert.False(t, verifier.Verify(other.PublicKey(), msg, sig))
		})
	}
}

func TestMalformedKeysDoNotVerify(t *testing.T) {
	msg := []byte("msg")
	assert.False(t, RSAVerifier{}.Verify([]byte{1, 2, 3}, msg, []byte{4}))
	assert.False(t, Ed25519Verifier{}.Verify([]byte{1, 2, 3}, msg, []byte{4}))
	assert.False(t, Ed25519Verifier{}.Verify(nil, msg, nil))

	// A key from the other scheme is rejected as well.
	ed, err := GenerateSigner(Ed25519, 0)
	require.NoError(t, err)
	sig, err := ed.Sign(msg)
	require.NoError(t, err)
	assert.False(t, RSAVerifier{}.Verify(ed.PublicKey(), msg, sig))
}

func TestUnknownScheme(t *testing.T) {
	_, err := ParseScheme("dsa")
	assert.True(t, errors.Is(err, ErrUnknownScheme))
	_, err = NewVerifier("dsa")
	assert.True(t, errors.Is(err, ErrUnknownScheme))
	_, err = GenerateSigner("dsa", 0)
	assert.True(t, errors.Is(err, ErrUnknownScheme))

	s, err := ParseScheme("ed25519")
	require.NoError(t, err)
	assert.Equal(t, Ed25519, s)
}
