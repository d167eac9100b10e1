package ticket

import (
	"crypto/ecdsa"
	"crypto/sha1"  //nolint:gosec // required by the ticket's own signing scheme, not chosen here
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"hash"
	"os"
	"sync"
)

// Digest identifies the hash algorithm selected by (signer, version),
// per spec.md §4.1 step 10.
type Digest int

const (
	DigestSHA1 Digest = iota
	DigestSHA256
	DigestSHA224
)

func (d Digest) new() hash.Hash {
	switch d {
	case DigestSHA256:
		return sha256.New()
	case DigestSHA224:
		return sha256.New224()
	default:
		return sha1.New()
	}
}

// SelectDigest picks the digest algorithm for a (signer, version) pair.
func SelectDigest(kind SignerKind, v Version) Digest {
	if kind == SignerConsole && v == VersionV4 {
		return DigestSHA256
	}
	if kind == SignerEmulator {
		return DigestSHA224
	}
	return DigestSHA1
}

// KeyStore loads and caches the two platform ECDSA public keys. Key
// file I/O happens at most once per process, following the teacher's
// pattern of precomputing RSA CRT values once at key-pair construction
// (internal/crypto/rsa.go) rather than redoing work per request.
type KeyStore struct {
	dir string

	mu   sync.RWMutex
	keys map[string]*ecdsa.PublicKey
}

// NewKeyStore returns a store that loads PEM-encoded public keys from
// dir, keyed by "psn" (Console) and "rpcn" (Emulator).
func NewKeyStore(dir string) *KeyStore {
	return &KeyStore{dir: dir, keys: make(map[string]*ecdsa.PublicKey)}
}

func keyName(kind SignerKind) string {
	if kind == SignerEmulator {
		return "rpcn"
	}
	return "psn"
}

// Key returns the cached public key for kind, loading and parsing it
// from "<dir>/<name>.pub" on first use.
func (ks *KeyStore) Key(kind SignerKind) (*ecdsa.PublicKey, error) {
	name := keyName(kind)

	ks.mu.RLock()
	if k, ok := ks.keys[name]; ok {
		ks.mu.RUnlock()
		return k, nil
	}
	ks.mu.RUnlock()

	ks.mu.Lock()
	defer ks.mu.Unlock()
	if k, ok := ks.keys[name]; ok {
		return k, nil
	}

	path := ks.dir + "/" + name + ".pub"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("loading key %s: not PEM encoded", path)
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing key %s: %w", path, err)
	}
	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("key %s is not ECDSA", path)
	}

	ks.keys[name] = ecdsaPub
	return ecdsaPub, nil
}

// VerifyPolicy controls whether a failing Console signature rejects a
// ticket. Emulator signatures always must verify. Per spec.md §4.1
// step 13 / §9 "Signature verification strictness": default off,
// because the per-game Console public key is not yet known; the
// computation still runs unconditionally so flipping this is a single
// decision, not a code change.
type VerifyPolicy struct {
	VerifyConsole bool
}

// Verify checks t's signature against the platform key in ks,
// returning a *DecodeError classified "SignatureFailed" on a
// rejecting failure. Console failures under a non-strict policy are
// logged-worthy but do not reject the ticket — the caller proceeds.
func Verify(t Ticket, ks *KeyStore, policy VerifyPolicy) error {
	digest := SelectDigest(t.Signature.Kind, t.Version)
	pub, err := ks.Key(t.Signature.Kind)
	if err != nil {
		return decodeErr("KeyLoadFailed", "%v", err)
	}

	h := digest.new()
	start, end := t.Signature.SignedRange[0], t.Signature.SignedRange[1]
	if start < 0 || end > len(t.raw) || start > end {
		return decodeErr("SignatureFailed", "signed range %d:%d invalid", start, end)
	}
	h.Write(t.raw[start:end])
	sum := h.Sum(nil)

	ok := ecdsa.VerifyASN1(pub, sum, t.Signature.Bytes)

	if t.Signature.Kind == SignerEmulator {
		if !ok {
			return decodeErr("SignatureFailed", "emulator signature verification failed")
		}
		return nil
	}

	// Console: compute unconditionally, reject only if policy says so.
	if !ok && policy.VerifyConsole {
		return decodeErr("SignatureFailed", "console signature verification failed")
	}
	return nil
}
