// Package signature provides the signature schemes transactions can be authorized with.
package signature

import (
	"crypto/rand"
	"crypto/rsa"

	"github.com/Luismorlan/scrooge_coin/utils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
)

type Scheme string

const (
	// RSA-PSS over SHA256 with PKIX encoded public keys.
	RSAPSS Scheme = "rsa-pss"
	// Ed25519 with raw 32 byte public keys.
	Ed25519 Scheme = "ed25519"
)

var ErrUnknownScheme = errors.New("unknown signature scheme")

// Verifier checks that sig is a valid signature of msg under publicKey.
// Malformed keys or signatures verify as false.
type Verifier interface {
	Verify(publicKey, msg, sig []byte) bool
}

// Signer holds a private key.
type Signer interface {
	PublicKey() []byte
	Sign(msg []byte) ([]byte, error)
}

func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case RSAPSS, Ed25519:
		return Scheme(s), nil
	}
	return "", errors.Wrapf(ErrUnknownScheme, "%q", s)
}

func NewVerifier(scheme Scheme) (Verifier, error) {
	switch scheme {
	case RSAPSS:
		return RSAVerifier{}, nil
	case Ed25519:
		return Ed25519Verifier{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
}

// GenerateSigner creates a fresh key for scheme. rsaBits is ignored by other schemes.
func GenerateSigner(scheme Scheme, rsaBits int) (Signer, error) {
	switch scheme {
	case RSAPSS:
		sk, _, err := utils.GenerateKeyPair(rsaBits)
		if err != nil {
			return nil, err
		}
		return NewRSASigner(sk), nil
	case Ed25519:
		_, sk, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate ed25519 key")
		}
		return Ed25519Signer{sk: sk}, nil
	}
	return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
}

type RSAVerifier struct{}

func (RSAVerifier) Verify(publicKey, msg, sig []byte) bool {
	pk := utils.BytesToPublicKey(publicKey)
	if pk == nil {
		return false
	}
	return utils.Verify(msg, pk, sig)
}

type RSASigner struct {
	sk  *rsa.PrivateKey
	pub []byte
}

func NewRSASigner(sk *rsa.PrivateKey) *RSASigner {
	return &RSASigner{
		sk:  sk,
		pub: utils.PublicKeyToBytes(&sk.PublicKey),
	}
}

func (s *RSASigner) PublicKey() []byte {
	return s.pub
}

func (s *RSASigner) Sign(msg []byte) ([]byte, error) {
	return utils.Sign(msg, s.sk)
}

type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(publicKey, msg, sig []byte) bool {
	// ed25519.Verify panics on a wrong sized key.
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), msg, sig)
}

type Ed25519Signer struct {
	sk ed25519.PrivateKey
}

func NewEd25519Signer(sk ed25519.PrivateKey) Ed25519Signer {
	return Ed25519Signer{sk: sk}
}

func (s Ed25519Signer) PublicKey() []byte {
	return s.sk.Public().(ed25519.PublicKey)
}

func (s Ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.sk, msg), nil
}
