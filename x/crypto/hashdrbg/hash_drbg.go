// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package hashdrbg implements the Hash-DRBG mechanism from NIST SP 800-90A
// Rev. 1, section 10.1.1, parameterized over SHA-256 (seedlen 440 bits)
// or SHA-512 (seedlen 888 bits).
//
// Both supported hash functions offer a 256-bit security strength (see
// NIST SP 800-57 Part 1 Rev. 5), so every instance of this mechanism
// carries a fixed 256-bit security strength regardless of which hash was
// selected at construction.
//
// Two details deliberately diverge from a straightforward reading of a
// reference Hash-DRBG port: Hash_df's length field is encoded as the
// 32-bit big-endian bit count the standard specifies (not a decimal ASCII
// string), and generate's final V update includes the "+ count" term
// required by section 10.1.1.4 step 6. Both are needed to match NIST KAT
// vectors; omitting either is a known, documented discrepancy and not an
// equally valid alternative reading.
package hashdrbg

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"

	"github.com/sixafter/drbg/drbgerr"
	"github.com/sixafter/drbg/internal/bigbe"
	"github.com/sixafter/drbg/x/crypto/mech"
)

// SecurityStrength is the fixed security strength, in bytes, this
// mechanism supports regardless of the underlying hash.
const SecurityStrength = 32

const (
	seedLenSHA256 = 440 / 8
	seedLenSHA512 = 888 / 8

	minEntropyLen = SecurityStrength
	minNonceLen   = SecurityStrength / 2
)

// Mech is a Hash-DRBG mechanism instance. The zero value is not usable;
// construct one with NewSHA256 or NewSHA512.
type Mech struct {
	newHash  func() hash.Hash
	v        []byte
	c        []byte
	count    uint64
	seedLen  int
	zeroized bool
}

var _ mech.Mechanism = (*Mech)(nil)

// NewSHA256 instantiates a Hash-DRBG mechanism using SHA-256 (55-byte
// seedlen). entropy must be at least 32 bytes and nonce at least 16
// bytes; pers may be nil or empty.
func NewSHA256(entropy, nonce, pers []byte) (*Mech, error) {
	return newMech(sha256.New, seedLenSHA256, entropy, nonce, pers)
}

// NewSHA512 instantiates a Hash-DRBG mechanism using SHA-512 (111-byte
// seedlen). entropy must be at least 32 bytes and nonce at least 16
// bytes; pers may be nil or empty.
func NewSHA512(entropy, nonce, pers []byte) (*Mech, error) {
	return newMech(sha512.New, seedLenSHA512, entropy, nonce, pers)
}

func newMech(newHash func() hash.Hash, seedLen int, entropy, nonce, pers []byte) (*Mech, error) {
	if len(entropy) < minEntropyLen {
		return nil, drbgerr.ErrEntropyTooShort
	}
	if len(nonce) < minNonceLen {
		return nil, drbgerr.ErrNonceTooShort
	}

	m := &Mech{newHash: newHash, seedLen: seedLen}

	seedMaterial := concat(entropy, nonce, pers)
	m.v = m.hashDF(seedMaterial, seedLen)
	m.c = m.hashDF(concat([]byte{0x00}, m.v), seedLen)
	m.count = 1

	return m, nil
}

// hashDF implements the Hash_df derivation function of SP 800-90A section
// 10.3.1: the length field encodes nbytes*8 as a 32-bit big-endian
// unsigned integer, per the standard.
func (m *Mech) hashDF(input []byte, nbytes int) []byte {
	out := make([]byte, 0, nbytes)

	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(nbytes)*8)

	for counter := byte(1); len(out) < nbytes; counter++ {
		h := m.newHash()
		h.Write([]byte{counter})
		h.Write(lenField[:])
		h.Write(input)
		out = append(out, h.Sum(nil)...)
	}

	return out[:nbytes]
}

// hashgen implements the generation loop of SP 800-90A section 10.1.1.4,
// operating on a scratch copy of V so the caller's V is left untouched
// until the subsequent V update.
func (m *Mech) hashgen(data []byte, n int) []byte {
	data = append([]byte(nil), data...)
	out := make([]byte, 0, n)

	for len(out) < n {
		h := m.newHash()
		h.Write(data)
		out = append(out, h.Sum(nil)...)
		bigbe.AddByte(data, 1)
	}

	return out[:n]
}

// Reseed implements SP 800-90A section 10.1.1.3.
func (m *Mech) Reseed(entropy, add []byte) error {
	if m.zeroized {
		return drbgerr.ErrZeroized
	}
	if len(entropy) < SecurityStrength {
		return drbgerr.ErrEntropyShort
	}

	seedMaterial := concat([]byte{0x01}, m.v, entropy, add)
	copy(m.v, m.hashDF(seedMaterial, m.seedLen))
	copy(m.c, m.hashDF(concat([]byte{0x00}, m.v), m.seedLen))
	m.count = 1

	return nil
}

// Generate implements SP 800-90A section 10.1.1.4. out is always cleared
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
		h := m.newHash()
		h.Write([]byte{0x02})
		h.Write(m.v)
		h.Write(add)
		w := h.Sum(nil)
		bigbe.AddVec(m.v, w)
	}

	copy(out, m.hashgen(m.v, len(out)))

	h := m.newHash()
	h.Write([]byte{0x03})
	h.Write(m.v)
	w := h.Sum(nil)
	bigbe.AddVec(m.v, w)
	bigbe.AddVec(m.v, m.c)
	bigbe.AddVec(m.v, countBytes(m.count, len(m.v)))

	m.count++

	return nil
}

// countBytes renders n as a big-endian byte vector of the given length,
// for the "+ count" term of the V update (SP 800-90A section 10.1.1.4
// step 6).
func countBytes(n uint64, length int) []byte {
	out := make([]byte, length)
	for i := length - 1; i >= 0 && n > 0; i-- {
		out[i] = byte(n)
		n >>= 8
	}
	return out
}

// Zeroize overwrites V and C with 0x00 and marks the instance destroyed.
func (m *Mech) Zeroize() error {
	if m.zeroized {
		return drbgerr.ErrZeroized
	}

	for i := range m.v {
		m.v[i] = 0
	}
	for i := range m.c {
		m.c[i] = 0
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

// Name returns "Hash-DRBG".
func (m *Mech) Name() string { return "Hash-DRBG" }

// SeedLife returns the Count value at which Generate requires a reseed;
// at most SeedLife-1 Generate calls are served between reseeds.
func (m *Mech) SeedLife() uint64 { return mech.SeedLife }

// concat joins byte slices into one, skipping nil/empty ones, without
// mutating any input.
func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
