// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package drbg is the SP 800-90A envelope: it bounds-checks caller
// inputs once, owns the entropy source, and forwards to whichever
// mechanism (x/crypto/hmacdrbg, x/crypto/hashdrbg, x/crypto/ctrdrbg) an
// Instance was built with. The envelope never implements cryptographic
// primitives itself; it is a thin, validating caller of the mech.Mechanism
// capability set.
package drbg

import (
	"fmt"
	"io"

	"github.com/sixafter/drbg/drbgerr"
	"github.com/sixafter/drbg/entropy"
	"github.com/sixafter/drbg/x/crypto/ctrdrbg"
	"github.com/sixafter/drbg/x/crypto/hashdrbg"
	"github.com/sixafter/drbg/x/crypto/hmacdrbg"
	"github.com/sixafter/drbg/x/crypto/mech"
)

// MaxPerRequest is the largest number of bytes a single Generate call may
// produce: 2^16 bytes, which is the 2^19-bit per-request limit SP 800-90A
// sets for these mechanisms.
const MaxPerRequest = 1 << 16

// maxAdditionalInputLen bounds both the personalization string at
// instantiation and the additional input at generate/reseed time.
const maxAdditionalInputLen = 32

var _ io.Reader = (*Instance)(nil)

// Instance is a single SP 800-90A DRBG instantiation: a bounds-checking,
// entropy-owning wrapper around one mech.Mechanism. It is not safe for
// concurrent use; callers needing concurrent access must serialize their
// own calls (e.g. with a sync.Mutex), matching the mechanism's own
// single-owner contract.
type Instance struct {
	m             mech.Mechanism
	strength      int
	entropySource entropy.Source
	destroyed     bool
}

// New instantiates a DRBG Instance. By default it requests a 256-bit
// security strength using HMAC-DRBG/SHA-256 and an OS entropy source;
// override any of these with Option arguments.
func New(opts ...Option) (*Instance, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.SecurityStrength < 112 || cfg.SecurityStrength > 256 {
		return nil, drbgerr.ErrInvalidSecurityStrength
	}
	if len(cfg.Personalization) > maxAdditionalInputLen {
		return nil, drbgerr.ErrPersonalizationTooLong
	}

	src := cfg.EntropySource
	if src == nil {
		src = entropy.NewOSEntropySource(nil)
	}

	entropyLen, nonceLen := seedRequirement(cfg.Mechanism)

	ent, err := src.Entropy(entropyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", drbgerr.ErrEntropyShort, err)
	}
	var nonce []byte
	if nonceLen > 0 {
		nonce, err = src.Entropy(nonceLen)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", drbgerr.ErrEntropyShort, err)
		}
	}

	m, strength, err := newMechanism(cfg.Mechanism, cfg.SecurityStrength, ent, nonce, cfg.Personalization)
	if err != nil {
		return nil, err
	}

	return &Instance{
		m:             m,
		strength:      strength,
		entropySource: src,
	}, nil
}

// seedRequirement reports the entropy and nonce lengths (in bytes) New
// must pull from the entropy source for the given mechanism kind.
func seedRequirement(kind MechanismKind) (entropyLen, nonceLen int) {
	switch kind {
	case HMACSHA256, HMACSHA512:
		return hmacdrbg.SecurityStrength, hmacdrbg.SecurityStrength / 2
	case HashSHA256, HashSHA512:
		return hashdrbg.SecurityStrength, hashdrbg.SecurityStrength / 2
	case CTRAES128:
		return ctrdrbg.KeySize128 + ctrdrbg.BlockLen, 0
	case CTRAES192:
		return ctrdrbg.KeySize192 + ctrdrbg.BlockLen, 0
	case CTRAES256:
		return ctrdrbg.KeySize256 + ctrdrbg.BlockLen, 0
	default:
		return hmacdrbg.SecurityStrength, hmacdrbg.SecurityStrength / 2
	}
}

// newMechanism constructs the mech.Mechanism for kind along with the
// instance security strength (in bits) it offers. requestedStrength is
// the caller's WithSecurityStrength value: HMAC-DRBG and Hash-DRBG both
// have a fixed 256-bit capability and coerce any requested strength up
// to it, but a CTR-DRBG variant's capability is exactly its key size, so
// a request exceeding that key size is rejected rather than silently
// downgraded.
func newMechanism(kind MechanismKind, requestedStrength int, ent, nonce, pers []byte) (mech.Mechanism, int, error) {
	switch kind {
	case HMACSHA256:
		m, err := hmacdrbg.NewSHA256(ent, nonce, pers)
		return wrapNilable(m, err)
	case HMACSHA512:
		m, err := hmacdrbg.NewSHA512(ent, nonce, pers)
		return wrapNilable(m, err)
	case HashSHA256:
		m, err := hashdrbg.NewSHA256(ent, nonce, pers)
		return wrapNilableHash(m, err)
	case HashSHA512:
		m, err := hashdrbg.NewSHA512(ent, nonce, pers)
		return wrapNilableHash(m, err)
	case CTRAES128:
		if requestedStrength > 128 {
			return nil, 0, drbgerr.ErrSecurityStrengthTooHigh
		}
		m, err := ctrdrbg.NewAES128(ent, pers)
		if err != nil {
			return nil, 0, err
		}
		return m, 128, nil
	case CTRAES192:
		if requestedStrength > 192 {
			return nil, 0, drbgerr.ErrSecurityStrengthTooHigh
		}
		m, err := ctrdrbg.NewAES192(ent, pers)
		if err != nil {
			return nil, 0, err
		}
		return m, 192, nil
	case CTRAES256:
		if requestedStrength > 256 {
			return nil, 0, drbgerr.ErrSecurityStrengthTooHigh
		}
		m, err := ctrdrbg.NewAES256(ent, pers)
		if err != nil {
			return nil, 0, err
		}
		return m, 256, nil
	default:
		m, err := hmacdrbg.NewSHA256(ent, nonce, pers)
		return wrapNilable(m, err)
	}
}

// wrapNilable adapts *hmacdrbg.Mech's fixed 256-bit strength into the
// (mech.Mechanism, strengthBits, error) shape newMechanism returns.
func wrapNilable(m *hmacdrbg.Mech, err error) (mech.Mechanism, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return m, hmacdrbg.SecurityStrength * 8, nil
}

func wrapNilableHash(m *hashdrbg.Mech, err error) (mech.Mechanism, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return m, hashdrbg.SecurityStrength * 8, nil
}

// Generate fills out with n pseudo-random bytes, where n == len(out).
// securityStrength is the strength the caller needs this request to
// satisfy; it must not exceed the strength the instance was instantiated
// with. If predictionResistance is true, or the mechanism's reseed
// interval has been reached, Generate transparently reseeds with fresh
// entropy (consuming add during that reseed) before generating.
func (i *Instance) Generate(out []byte, securityStrength int, predictionResistance bool, add []byte) error {
	for j := range out {
		out[j] = 0
	}

	if i.destroyed {
		return drbgerr.ErrZeroized
	}
	if len(out) > MaxPerRequest {
		return drbgerr.ErrRequestTooLarge
	}
	if securityStrength > i.strength {
		return drbgerr.ErrSecurityStrengthTooHigh
	}
	if len(add) > maxAdditionalInputLen {
		return drbgerr.ErrAdditionalInputTooLong
	}

	if predictionResistance || i.m.ReseedNeeded() {
		if err := i.reseedFromSource(add); err != nil {
			return err
		}
		return i.m.Generate(out, nil)
	}

	return i.m.Generate(out, add)
}

// Reseed mixes fresh entropy (and optional additional input) into the
// underlying mechanism.
func (i *Instance) Reseed(add []byte) error {
	if i.destroyed {
		return drbgerr.ErrZeroized
	}
	if len(add) > maxAdditionalInputLen {
		return drbgerr.ErrAdditionalInputTooLong
	}
	return i.reseedFromSource(add)
}

func (i *Instance) reseedFromSource(add []byte) error {
	entropyLen, _ := seedRequirement(mechanismKindOf(i.m))
	ent, err := i.entropySource.Entropy(entropyLen)
	if err != nil {
		return fmt.Errorf("%w: %w", drbgerr.ErrEntropyShort, err)
	}
	return i.m.Reseed(ent, add)
}

// mechanismKindOf infers the reseed entropy requirement from the
// mechanism's own advertised name, since Instance does not otherwise
// retain the originally-selected MechanismKind after construction. Only
// the mechanism family (HMAC vs Hash vs CTR, and CTR's key size) affects
// seedRequirement -- the two hash variants within HMAC-DRBG/Hash-DRBG
// share identical entropy/nonce requirements -- so collapsing both SHA
// variants onto one MechanismKind per family is not a loss of
// information here.
func mechanismKindOf(m mech.Mechanism) MechanismKind {
	switch m.Name() {
	case "HMAC-DRBG":
		return HMACSHA256
	case "Hash-DRBG":
		return HashSHA256
	case "CTR-DRBG/AES-128":
		return CTRAES128
	case "CTR-DRBG/AES-192":
		return CTRAES192
	case "CTR-DRBG/AES-256":
		return CTRAES256
	default:
		return HMACSHA256
	}
}

// Uninstantiate zeroizes the underlying mechanism's secret state and
// marks the Instance destroyed. Subsequent calls return ErrZeroized.
func (i *Instance) Uninstantiate() error {
	if i.destroyed {
		return drbgerr.ErrZeroized
	}
	i.destroyed = true
	return i.m.Zeroize()
}

// Read implements io.Reader as a convenience wrapper around Generate,
// using no additional input and no prediction resistance. It requests
// the instance's own security strength on every call.
func (i *Instance) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := i.Generate(p, i.strength, false, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Destroyed reports whether Uninstantiate has been called.
func (i *Instance) Destroyed() bool { return i.destroyed }

// SecurityStrength reports the instance's instantiated security
// strength in bits.
func (i *Instance) SecurityStrength() int { return i.strength }
