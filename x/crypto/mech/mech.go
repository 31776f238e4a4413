// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package mech defines the capability contract shared by every SP 800-90A
// DRBG mechanism implementation (HMAC-DRBG, Hash-DRBG, CTR-DRBG no-df).
//
// The envelope in package drbg is written against this interface only; it
// never imports a concrete mechanism package directly from its generic
// call paths, which keeps the three mechanisms interchangeable and keeps
// new mechanisms (should one ever be added) from requiring envelope
// changes beyond a constructor call.
package mech

// Mechanism is the capability set every DRBG mechanism instance exposes.
// Construction is necessarily mechanism-specific (HMAC-DRBG and Hash-DRBG
// take a hash constructor, CTR-DRBG takes an AES key size) and so is not
// part of this interface; each mechanism package exposes its own New*
// function(s) returning a value satisfying Mechanism.
type Mechanism interface {
	// Reseed mixes fresh entropy (and optional additional input) into the
	// mechanism's internal state and resets its reseed counter to 1.
	Reseed(entropy, add []byte) error

	// Generate fills out with pseudo-random bytes, optionally mixing add
	// into the internal state first. out is always cleared before any
	// error is returned.
	Generate(out []byte, add []byte) error

	// Zeroize overwrites every byte of secret state with 0x00 and moves
	// the instance to the destroyed phase. It is idempotent in effect but
	// reports ErrZeroized on every call after the first.
	Zeroize() error

	// Count reports the reseed counter: 1 right after instantiate/reseed,
	// plus one for every Generate call served since.
	Count() uint64

	// ReseedNeeded reports whether Count has reached SeedLife.
	ReseedNeeded() bool

	// IsZeroized reports whether Zeroize has been called.
	IsZeroized() bool

	// Name reports the mechanism's SP 800-90A name, e.g. "HMAC-DRBG".
	Name() string

	// SeedLife reports the Count value at which Generate fails with
	// ErrReseedRequired until a Reseed, so at most SeedLife-1 Generate
	// calls are served between reseeds.
	SeedLife() uint64
}

// SeedLife is the reseed-counter limit common to all three mechanisms:
// once Count reaches it, Generate fails until a Reseed, so at most
// SeedLife-1 generate requests are served between (re)seedings
// (SP 800-90A leaves this as
// an implementation choice; 1000 matches the reference implementation this
// package is ported from).
const SeedLife uint64 = 1000
