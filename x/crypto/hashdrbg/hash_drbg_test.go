// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package hashdrbg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixafter/drbg/drbgerr"
)

func fixedSeed() (entropy, nonce, pers []byte) {
	entropy = bytes.Repeat([]byte{0x9c}, 32)
	nonce = bytes.Repeat([]byte{0x10}, 16)
	pers = []byte("hash-drbg-test-personalization")
	return
}

// TestNewSHA256_SeedLengths verifies V and C are derived to the 440-bit
// (55-byte) seedlen documented for SHA-256.
func TestNewSHA256_SeedLengths(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)
	is.Len(m.v, 55)
	is.Len(m.c, 55)
}

// TestNewSHA512_SeedLengths verifies V and C are derived to the 888-bit
// (111-byte) seedlen documented for SHA-512.
func TestNewSHA512_SeedLengths(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA512(entropy, nonce, pers)
	is.NoError(err)
	is.Len(m.v, 111)
	is.Len(m.c, 111)
}

// TestNewSHA256_RejectsShortInputs verifies the entropy and nonce floors.
func TestNewSHA256_RejectsShortInputs(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()

	_, err := NewSHA256(entropy[:31], nonce, pers)
	is.ErrorIs(err, drbgerr.ErrEntropyTooShort)

	_, err = NewSHA256(entropy, nonce[:15], pers)
	is.ErrorIs(err, drbgerr.ErrNonceTooShort)
}

// TestDeterminism verifies two independently constructed instances seeded
// identically and driven through identical call sequences agree exactly.
func TestDeterminism(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m1, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)
	m2, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)

	is.NoError(m1.Generate(out1, []byte("add")))
	is.NoError(m2.Generate(out2, []byte("add")))
	is.Equal(out1, out2)

	is.NoError(m1.Generate(out1, nil))
	is.NoError(m2.Generate(out2, nil))
	is.Equal(out1, out2)
}

// TestGenerate_ExactLength verifies Generate fills exactly len(out)
// bytes for lengths that do not evenly divide the hash size.
func TestGenerate_ExactLength(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)

	for _, n := range []int{0, 1, 31, 32, 33, 100} {
		out := make([]byte, n)
		is.NoError(m.Generate(out, nil))
		is.Len(out, n)
	}
}

// TestGenerate_DiffersAcrossCalls verifies consecutive generate calls
// advance the internal state and produce different output.
func TestGenerate_DiffersAcrossCalls(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)

	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	is.NoError(m.Generate(out1, nil))
	is.NoError(m.Generate(out2, nil))
	is.False(bytes.Equal(out1, out2))
}

// TestGenerate_ReseedInterval drives 999 back-to-back generate calls,
// which bring Count from 1 to SeedLife (1000), and verifies they succeed,
// the 1000th call fails with ErrReseedRequired, and a reseed recovers the
// instance.
func TestGenerate_ReseedInterval(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)

	out := make([]byte, 16)
	var lastErr error
	for i := 0; i < 999; i++ {
		lastErr = m.Generate(out, nil)
	}
	is.NoError(lastErr)
	is.Equal(uint64(1000), m.Count())
	is.True(m.ReseedNeeded())

	err = m.Generate(out, nil)
	is.ErrorIs(err, drbgerr.ErrReseedRequired)
	for _, b := range out {
		is.Zero(b)
	}

	is.NoError(m.Reseed(entropy, nil))
	is.Equal(uint64(1), m.Count())
	is.NoError(m.Generate(out, nil))
}

// TestZeroize_ClearsSecretsAndBlocksFurtherOps verifies Zeroize wipes V
// and C, and that every subsequent operation reports ErrZeroized with
// out left cleared.
func TestZeroize_ClearsSecretsAndBlocksFurtherOps(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)

	is.NoError(m.Zeroize())
	for _, b := range m.v {
		is.Zero(b)
	}
	for _, b := range m.c {
		is.Zero(b)
	}
	is.True(m.IsZeroized())

	out := []byte{0xAA, 0xBB}
	is.ErrorIs(m.Generate(out, nil), drbgerr.ErrZeroized)
	for _, b := range out {
		is.Zero(b)
	}
	is.ErrorIs(m.Reseed(entropy, nil), drbgerr.ErrZeroized)
	is.ErrorIs(m.Zeroize(), drbgerr.ErrZeroized)
}

// TestName_And_SeedLife verifies the introspection accessors.
func TestName_And_SeedLife(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	entropy, nonce, pers := fixedSeed()
	m, err := NewSHA256(entropy, nonce, pers)
	is.NoError(err)

	is.Equal("Hash-DRBG", m.Name())
	is.Equal(uint64(1000), m.SeedLife())
}
