// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixafter/drbg/drbgerr"
	"github.com/sixafter/drbg/entropy"
)

func TestNew_SecurityStrengthBounds(t *testing.T) {
	t.Parallel()

	_, err := New(WithSecurityStrength(112))
	assert.NoError(t, err)

	_, err = New(WithSecurityStrength(111))
	assert.ErrorIs(t, err, drbgerr.ErrInvalidSecurityStrength)

	_, err = New(WithSecurityStrength(257))
	assert.ErrorIs(t, err, drbgerr.ErrInvalidSecurityStrength)
}

func TestNew_PersonalizationBounds(t *testing.T) {
	t.Parallel()

	_, err := New(WithPersonalization(make([]byte, 32)))
	assert.NoError(t, err)

	_, err = New(WithPersonalization(make([]byte, 33)))
	assert.ErrorIs(t, err, drbgerr.ErrPersonalizationTooLong)
}

func TestGenerate_AdditionalInputBounds(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)

	out := make([]byte, 16)
	assert.NoError(t, inst.Generate(out, 0, false, make([]byte, 32)))

	err = inst.Generate(out, 0, false, make([]byte, 33))
	assert.True(t, errors.Is(err, drbgerr.ErrAdditionalInputTooLong))
}

func TestGenerate_RequestSizeBounds(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)

	assert.NoError(t, inst.Generate(make([]byte, MaxPerRequest), 0, false, nil))
	err = inst.Generate(make([]byte, MaxPerRequest+1), 0, false, nil)
	assert.ErrorIs(t, err, drbgerr.ErrRequestTooLarge)
}

func TestNew_CTRSecurityStrengthExceedsKeySize(t *testing.T) {
	t.Parallel()

	// CTR-DRBG's capability is fixed by its key size: a request above
	// that many bits must be rejected at instantiation, unlike
	// HMAC-DRBG/Hash-DRBG, which coerce any request up to their shared
	// fixed 256-bit capability.
	_, err := New(WithSecurityStrength(256), WithMechanism(CTRAES128))
	assert.ErrorIs(t, err, drbgerr.ErrSecurityStrengthTooHigh)
	assert.Equal(t, drbgerr.InstantiateCodeMechanismInitFailed, drbgerr.InstantiateCodeOf(err))

	inst, err := New(WithSecurityStrength(128), WithMechanism(CTRAES128))
	assert.NoError(t, err)
	assert.Equal(t, 128, inst.SecurityStrength())

	_, err = New(WithSecurityStrength(192), WithMechanism(CTRAES128))
	assert.ErrorIs(t, err, drbgerr.ErrSecurityStrengthTooHigh)

	_, err = New(WithSecurityStrength(192), WithMechanism(CTRAES192))
	assert.NoError(t, err)

	_, err = New(WithSecurityStrength(256), WithMechanism(CTRAES256))
	assert.NoError(t, err)
}

func TestNew_HMACAndHashCoerceStrengthUp(t *testing.T) {
	t.Parallel()

	// HMAC-DRBG and Hash-DRBG both offer a fixed 256-bit capability
	// regardless of the requested strength, as long as the request does
	// not exceed it -- this is unaffected by the CTR-DRBG check above.
	inst, err := New(WithSecurityStrength(112), WithMechanism(HMACSHA256))
	assert.NoError(t, err)
	assert.Equal(t, 256, inst.SecurityStrength())

	inst, err = New(WithSecurityStrength(200), WithMechanism(HashSHA512))
	assert.NoError(t, err)
	assert.Equal(t, 256, inst.SecurityStrength())
}

func TestGenerate_SecurityStrengthExceedsInstance(t *testing.T) {
	t.Parallel()

	// Scenario 4: instantiate at sec_str=128, ask for 256 -> fails; ask
	// for 64 -> succeeds.
	inst, err := New(WithSecurityStrength(128), WithMechanism(CTRAES128))
	assert.NoError(t, err)
	assert.Equal(t, 128, inst.SecurityStrength())

	out := make([]byte, 16)
	err = inst.Generate(out, 256, false, nil)
	assert.ErrorIs(t, err, drbgerr.ErrSecurityStrengthTooHigh)

	err = inst.Generate(out, 64, false, nil)
	assert.NoError(t, err)
}

func TestGenerate_ExactLength(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)

	for _, n := range []int{0, 1, 15, 16, 100, 4096} {
		out := make([]byte, n)
		assert.NoError(t, inst.Generate(out, 0, false, nil))
		assert.Len(t, out, n)
	}
}

func TestGenerate_ClearsOutputBufferOnError(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)

	out := make([]byte, 16)
	for i := range out {
		out[i] = 0xAB
	}

	err = inst.Generate(out, 0, false, make([]byte, 64))
	assert.ErrorIs(t, err, drbgerr.ErrAdditionalInputTooLong)
	for _, b := range out {
		assert.Equal(t, byte(0), b)
	}
}

func TestGenerate_AfterUninstantiate(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)
	assert.NoError(t, inst.Uninstantiate())

	err = inst.Generate(make([]byte, 16), 0, false, nil)
	assert.ErrorIs(t, err, drbgerr.ErrZeroized)

	err = inst.Uninstantiate()
	assert.ErrorIs(t, err, drbgerr.ErrZeroized)

	err = inst.Reseed(nil)
	assert.ErrorIs(t, err, drbgerr.ErrZeroized)
}

func TestReseed_AdditionalInputBounds(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)

	assert.NoError(t, inst.Reseed(make([]byte, 32)))
	err = inst.Reseed(make([]byte, 33))
	assert.ErrorIs(t, err, drbgerr.ErrAdditionalInputTooLong)
}

// countingEntropySource wraps an entropy.Source and counts how many
// times Entropy was called, to verify prediction-resistant generate
// forces a reseed on every call (concrete scenario 5).
type countingEntropySource struct {
	inner entropy.Source
	calls int
}

func (c *countingEntropySource) Entropy(n int) ([]byte, error) {
	c.calls++
	return c.inner.Entropy(n)
}

func TestGenerate_PredictionResistanceReseedsEveryCall(t *testing.T) {
	t.Parallel()

	counting := &countingEntropySource{inner: entropy.NewOSEntropySource(nil)}

	inst, err := New(WithEntropySource(counting))
	assert.NoError(t, err)

	callsAfterNew := counting.calls
	out := make([]byte, 16)
	for i := 0; i < 3; i++ {
		assert.NoError(t, inst.Generate(out, 0, true, nil))
	}
	assert.Equal(t, callsAfterNew+3, counting.calls)
}

func TestGenerate_ReseedsTransparentlyAtReseedInterval(t *testing.T) {
	t.Parallel()

	inst, err := New(WithMechanism(HashSHA256))
	assert.NoError(t, err)

	out := make([]byte, 1)
	for i := 0; i < 999; i++ {
		assert.NoError(t, inst.Generate(out, 0, false, nil))
	}
	// The 1000th call would exceed SEED_LIFE for the bare mechanism, but
	// the envelope transparently reseeds first, so it still succeeds.
	assert.NoError(t, inst.Generate(out, 0, false, nil))
}

func TestInstance_ImplementsIOReader(t *testing.T) {
	t.Parallel()

	inst, err := New()
	assert.NoError(t, err)

	buf := make([]byte, 32)
	n, err := inst.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 32, n)
}
