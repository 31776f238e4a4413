// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package entropy defines the full-entropy source contract the DRBG
// envelope pulls from, plus two concrete implementations. The core
// mechanisms (x/crypto/hmacdrbg, x/crypto/hashdrbg, x/crypto/ctrdrbg)
// never import this package or any concrete source — only package
// drbg does, at the envelope boundary, exactly as the external
// collaborator note in the mechanism design describes.
package entropy

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// Source supplies full-entropy byte strings on demand. A call either
// returns exactly n bytes of full entropy or fails outright; per the
// entropy source contract, it must never silently return fewer bytes
// than requested.
type Source interface {
	Entropy(n int) ([]byte, error)
}

// OSEntropySource draws entropy from an io.Reader, defaulting to
// crypto/rand.Reader. It is the envelope's default source when no
// WithEntropySource option is given.
type OSEntropySource struct {
	reader io.Reader
}

// NewOSEntropySource returns an OSEntropySource reading from r. If r is
// nil, crypto/rand.Reader is used.
func NewOSEntropySource(r io.Reader) *OSEntropySource {
	if r == nil {
		r = rand.Reader
	}
	return &OSEntropySource{reader: r}
}

// Entropy reads exactly n bytes from the underlying reader, failing if
// fewer are available.
func (s *OSEntropySource) Entropy(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ChaChaEntropySource derives entropy from a ChaCha20 keystream rather
// than repeatedly hitting the OS CSPRNG. The stream is keyed and nonced
// from crypto/rand once at construction; the cipher itself carries no
// file descriptors or syscalls, which keeps Entropy calls cheap under
// heavy reseed pressure (e.g. a pool of DRBG mechanisms all reseeding
// around the same time).
type ChaChaEntropySource struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewChaChaEntropySource seeds a ChaCha20 stream from crypto/rand and
// returns a Source backed by it.
func NewChaChaEntropySource() (*ChaChaEntropySource, error) {
	key := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("entropy: chacha20 key: %w", err)
	}
	nonce := make([]byte, chacha20.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("entropy: chacha20 nonce: %w", err)
	}
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, fmt.Errorf("entropy: chacha20 cipher: %w", err)
	}
	return &ChaChaEntropySource{cipher: c}, nil
}

// Entropy returns n bytes of ChaCha20 keystream output. The underlying
// cipher is mutated on every call, so concurrent callers are
// serialized with a mutex.
func (s *ChaChaEntropySource) Entropy(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := make([]byte, n)
	dst := make([]byte, n)
	s.cipher.XORKeyStream(dst, src)
	return dst, nil
}
