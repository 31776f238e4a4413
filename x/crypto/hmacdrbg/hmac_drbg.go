// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package hmacdrbg implements the HMAC-DRBG mechanism from NIST SP 800-90A
// Rev. 1, section 10.1.2, parameterized over SHA-256 or SHA-512.
//
// Both supported hash functions offer a 256-bit security strength (see
// NIST SP 800-57 Part 1 Rev. 5), so every instance of this mechanism
// carries a fixed 256-bit security strength regardless of which hash was
// selected at construction.
package hmacdrbg

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/sixafter/drbg/drbgerr"
	"github.com/sixafter/drbg/x/crypto/mech"
)

// SecurityStrength is the fixed security strength, in bytes, this
// mechanism supports regardless of the underlying hash.
const SecurityStrength = 32

const (
	minEntropyLen = SecurityStrength
	minNonceLen   = SecurityStrength / 2
)

// Mech is an HMAC-DRBG mechanism instance. The zero value is not usable;
// construct one with NewSHA256 or NewSHA512.
type Mech struct {
	newHash  func() hash.Hash
	k        []byte
	v        []byte
	count    uint64
	zeroized bool
}

var _ mech.Mechanism = (*Mech)(nil)

// NewSHA256 instantiates an HMAC-DRBG mechanism using HMAC-SHA-256.
// entropy must be at least 32 bytes and nonce at least 16 bytes; pers may
// be nil or empty.
func NewSHA256(entropy, nonce, pers []byte) (*Mech, error) {
	return newMech(sha256.New, entropy, nonce, pers)
}

// NewSHA512 instantiates an HMAC-DRBG mechanism using HMAC-SHA-512.
// entropy must be at least 32 bytes and nonce at least 16 bytes; pers may
// be nil or empty.
func NewSHA512(entropy, nonce, pers []byte) (*Mech, error) {
	return newMech(sha512.New, entropy, nonce, pers)
}

func newMech(newHash func() hash.Hash, entropy, nonce, pers []byte) (*Mech, error) {
	if len(entropy) < minEntropyLen {
		return nil, drbgerr.ErrEntropyTooShort
	}
	if len(nonce) < minNonceLen {
		return nil, drbgerr.ErrNonceTooShort
	}

	hashLen := newHash().Size()

	m := &Mech{
		newHash: newHash,
		k:       make([]byte, hashLen),
		v:       make([]byte, hashLen),
	}
	for i := range m.v {
		m.v[i] = 0x01
	}

	m.update([][]byte{entropy, nonce, pers})
	m.count = 1

	return m, nil
}

// update implements SP 800-90A section 10.1.2.2. seeds == nil selects the
// no-additional-input (single pass) branch; a non-nil seeds slice
// (possibly containing empty parts) always runs both passes -- NIST
// distinguishes "no seed_parts" from "seed_parts present but possibly
// empty".
func (m *Mech) update(seeds [][]byte) {
	k1 := hmac.New(m.newHash, m.k)
	k1.Write(m.v)
	k1.Write([]byte{0x00})
	for _, s := range seeds {
		k1.Write(s)
	}
	k1.Sum(m.k[:0])

	v1 := hmac.New(m.newHash, m.k)
	v1.Write(m.v)
	v1.Sum(m.v[:0])

	if seeds == nil {
		return
	}

	k2 := hmac.New(m.newHash, m.k)
	k2.Write(m.v)
	k2.Write([]byte{0x01})
	for _, s := range seeds {
		k2.Write(s)
	}
	k2.Sum(m.k[:0])

	v2 := hmac.New(m.newHash, m.k)
	v2.Write(m.v)
	v2.Sum(m.v[:0])
}

// Reseed implements SP 800-90A section 10.1.2.4.
func (m *Mech) Reseed(entropy, add []byte) error {
	if m.zeroized {
		return drbgerr.ErrZeroized
	}
	if len(entropy) < SecurityStrength {
		return drbgerr.ErrEntropyShort
	}

	if add == nil {
		add = []byte{}
	}
	m.update([][]byte{entropy, add})
	m.count = 1

	return nil
}

// Generate implements SP 800-90A section 10.1.2.5. out is always cleared
// before any error is returned; its length is the number of bytes
// requested.
func (m *Mech) Generate(out []byte, add []byte) error {
	for i := range out {
		out[i] = 0
	}

	if m.zeroized {
		return drbgerr.ErrZeroized
	}
	if m.count >= mech.SeedLife {
		return drbgerr.ErrReseedRequired
	}

	if add != nil {
		m.update([][]byte{add})
	}

	n := len(out)
	for i := 0; i < n; {
		v1 := hmac.New(m.newHash, m.k)
		v1.Write(m.v)
		v1.Sum(m.v[:0])
		i += copy(out[i:], m.v)
	}

	if add != nil {
		m.update([][]byte{add})
	} else {
		m.update(nil)
	}
	m.count++

	return nil
}

// Zeroize overwrites K and V with 0x00 and marks the instance destroyed.
func (m *Mech) Zeroize() error {
	if m.zeroized {
		return drbgerr.ErrZeroized
	}

	for i := range m.k {
		m.k[i] = 0
	}
	for i := range m.v {
		m.v[i] = 0
	}
	m.count = 0
	m.zeroized = true

	return nil
}

// Count reports the reseed counter: 1 after instantiation or the last
// Reseed, plus one for every Generate call served since.
func (m *Mech) Count() uint64 { return m.count }

// ReseedNeeded reports whether Count has reached the mechanism's seed
// life.
func (m *Mech) ReseedNeeded() bool { return m.count >= mech.SeedLife }

// IsZeroized reports whether Zeroize has been called.
func (m *Mech) IsZeroized() bool { return m.zeroized }

// Name returns "HMAC-DRBG".
func (m *Mech) Name() string { return "HMAC-DRBG" }

// SeedLife returns the Count value at which Generate requires a reseed;
// at most SeedLife-1 Generate calls are served between reseeds.
func (m *Mech) SeedLife() uint64 { return mech.SeedLife }
