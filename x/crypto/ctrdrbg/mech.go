// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ctrdrbg provides a FIPS 140-2 aligned AES-CTR-DRBG.
//
// The bit-exact NIST SP 800-90A section 10.2.1 mechanism (no derivation
// function) lives in this file as Mech; Reader (aes_ctr_drbg.go) and
// Config with its functional options (config.go) are an io.Reader ergonomics layer
// built on top of a pool of Mech instances, for callers that just want
// a stream of random bytes and don't need direct access to reseed,
// additional input, or zeroization.
package ctrdrbg

import (
	"crypto/aes"

	"github.com/sixafter/drbg/drbgerr"
	"github.com/sixafter/drbg/internal/bigbe"
	"github.com/sixafter/drbg/x/crypto/mech"
)

// Key sizes this mechanism accepts, selecting AES-128, AES-192, or
// AES-256 respectively. The security strength, in bytes, equals the
// chosen key size.
const (
	KeySize128 = 16
	KeySize192 = 24
	KeySize256 = 32
)

// BlockLen is the AES block length in bytes ("blocklen" in SP 800-90A).
const BlockLen = 16

// CtrLen is the width, in bytes, of the counter field within V that
// update's generation loop increments. Only the rightmost CtrLen bytes
// of V advance per block; the remaining leftmost bytes are carried
// through unchanged.
const CtrLen = 4

// Mech is a CTR-DRBG (no df) mechanism instance. The zero value is not
// usable; construct one with NewAES128, NewAES192, or NewAES256.
type Mech struct {
	key      []byte
	v        []byte
	keyLen   int
	count    uint64
	zeroized bool
}

var _ mech.Mechanism = (*Mech)(nil)

// NewAES128 instantiates a CTR-DRBG mechanism using AES-128. entropy
// must be at least keylen+blocklen (32) bytes; pers may be nil or
// shorter/longer than seedlen (it is right-zero-padded or truncated).
func NewAES128(entropy, pers []byte) (*Mech, error) {
	return newMech(KeySize128, entropy, pers)
}

// NewAES192 instantiates a CTR-DRBG mechanism using AES-192. entropy
// must be at least keylen+blocklen (40) bytes.
func NewAES192(entropy, pers []byte) (*Mech, error) {
	return newMech(KeySize192, entropy, pers)
}

// NewAES256 instantiates a CTR-DRBG mechanism using AES-256. entropy
// must be at least keylen+blocklen (48) bytes.
func NewAES256(entropy, pers []byte) (*Mech, error) {
	return newMech(KeySize256, entropy, pers)
}

func newMech(keyLen int, entropy, pers []byte) (*Mech, error) {
	seedLen := keyLen + BlockLen
	if len(entropy) < seedLen {
		return nil, drbgerr.ErrEntropyTooShort
	}

	m := &Mech{
		key:    make([]byte, keyLen),
		v:      make([]byte, BlockLen),
		keyLen: keyLen,
	}

	seedMaterial := append([]byte(nil), entropy[:seedLen]...)
	bigbe.XOR(seedMaterial, padOrTruncate(pers, seedLen))

	if err := m.update(seedMaterial); err != nil {
		return nil, err
	}
	m.count = 1

	return m, nil
}

// update implements SP 800-90A section 10.2.1.2. providedData must be
// exactly keylen+blocklen bytes.
func (m *Mech) update(providedData []byte) error {
	block, err := aes.NewCipher(m.key)
	if err != nil {
		return drbgerr.ErrInternal
	}

	seedLen := m.keyLen + BlockLen
	temp := make([]byte, 0, seedLen+BlockLen)
	for len(temp) < seedLen {
		incV(m.v)
		var blk [BlockLen]byte
		block.Encrypt(blk[:], m.v)
		temp = append(temp, blk[:]...)
	}
	temp = temp[:seedLen]
	bigbe.XOR(temp, providedData)

	copy(m.key, temp[:m.keyLen])
	copy(m.v, temp[m.keyLen:])

	return nil
}

// incV increments the rightmost CtrLen bytes of v modulo 2^(8*CtrLen),
// leaving the leftmost blocklen-CtrLen bytes unchanged. If CtrLen were
// ever configured >= len(v), the whole of v increments instead.
func incV(v []byte) {
	if CtrLen >= len(v) {
		bigbe.AddByte(v, 1)
		return
	}
	bigbe.AddByte(v[len(v)-CtrLen:], 1)
}

// padOrTruncate returns b right-zero-padded or truncated to exactly n
// bytes, without mutating b.
func padOrTruncate(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Reseed implements SP 800-90A section 10.2.1.3.
func (m *Mech) Reseed(entropy, add []byte) error {
	if m.zeroized {
		return drbgerr.ErrZeroized
	}

	seedLen := m.keyLen + BlockLen
	if len(entropy) < seedLen {
		return drbgerr.ErrEntropyShort
	}

	seedMaterial := append([]byte(nil), entropy[:seedLen]...)
	bigbe.XOR(seedMaterial, padOrTruncate(add, seedLen))

	if err := m.update(seedMaterial); err != nil {
		return err
	}
	m.count = 1

	return nil
}

// Generate implements SP 800-90A section 10.2.1.4. out is always
// cleared before any error is returned; its length is the number of
// bytes requested.
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

	seedLen := m.keyLen + BlockLen
	addPadded := make([]byte, seedLen)
	if add != nil {
		copy(addPadded, add)
		if err := m.update(addPadded); err != nil {
			return err
		}
	}

	block, err := aes.NewCipher(m.key)
	if err != nil {
		return drbgerr.ErrInternal
	}

	n := len(out)
	for i := 0; i < n; {
		incV(m.v)
		var blk [BlockLen]byte
		block.Encrypt(blk[:], m.v)
		i += copy(out[i:], blk[:])
	}

	if err := m.update(addPadded); err != nil {
		return err
	}
	m.count++

	return nil
}

// Zeroize overwrites Key and V with 0x00 and marks the instance
// destroyed.
func (m *Mech) Zeroize() error {
	if m.zeroized {
		return drbgerr.ErrZeroized
	}

	for i := range m.key {
		m.key[i] = 0
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

// Name returns a string identifying the AES variant this instance was
// constructed with, e.g. "CTR-DRBG/AES-256".
func (m *Mech) Name() string {
	switch m.keyLen {
	case KeySize128:
		return "CTR-DRBG/AES-128"
	case KeySize192:
		return "CTR-DRBG/AES-192"
	default:
		return "CTR-DRBG/AES-256"
	}
}

// SeedLife returns the Count value at which Generate requires a reseed;
// at most SeedLife-1 Generate calls are served between reseeds.
func (m *Mech) SeedLife() uint64 { return mech.SeedLife }
