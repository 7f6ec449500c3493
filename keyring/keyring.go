package keyring

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// derivationDomain separates login-key derivation from any other use of the
// same user key. It is a fixed constant: derivation must stay deterministic.
const derivationDomain = "authproxy-login-key-v1"

// userKeyEntropyBytes is the amount of raw entropy behind a freshly minted
// user key.
const userKeyEntropyBytes = 32

// KeyPair is the result of deriving a signing keypair against one challenge.
// Both fields are raw (unpadded) base64url.
type KeyPair struct {
	PublicKey string
	Signature string
}

// Derive expands secret into an Ed25519 keypair and signs challenge with it.
//
// Derivation is deterministic and side-effect free: the same (secret,
// challenge) pair always yields the same KeyPair. The private key exists only
// for the duration of the call.
func Derive(secret string, challenge []byte) (KeyPair, error) {
	if len(challenge) == 0 {
		return KeyPair{}, ErrEmptyChallenge
	}

	seed := make([]byte, ed25519.SeedSize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(derivationDomain))
	if _, err := io.ReadFull(kdf, seed); err != nil {
		return KeyPair{}, fmt.Errorf("derive seed: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	sig := ed25519.Sign(priv, challenge)

	return KeyPair{
		PublicKey: base64.RawURLEncoding.EncodeToString(pub),
		Signature: base64.RawURLEncoding.EncodeToString(sig),
	}, nil
}

// Verify checks a base64url signature produced by Derive against the original
// challenge. It returns false for any malformed input.
func Verify(publicKey, signature string, challenge []byte) bool {
	pub, err := base64.RawURLEncoding.DecodeString(publicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), challenge, sig)
}

// NewUserKey mints a new user key from cryptographically secure randomness.
//
// The raw entropy is never returned: it is pushed through SHA-256 so the key
// has a fixed form (64 lowercase hex characters) regardless of entropy size.
func NewUserKey() (string, error) {
	entropy := make([]byte, userKeyEntropyBytes)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	sum := sha256.Sum256(entropy)
	return hex.EncodeToString(sum[:]), nil
}
