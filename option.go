// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import "github.com/sixafter/drbg/entropy"

// MechanismKind selects which SP 800-90A mechanism and primitive variant
// an Instance is built from.
type MechanismKind int

const (
	// HMACSHA256 selects HMAC-DRBG over HMAC-SHA-256.
	HMACSHA256 MechanismKind = iota
	// HMACSHA512 selects HMAC-DRBG over HMAC-SHA-512.
	HMACSHA512
	// HashSHA256 selects Hash-DRBG over SHA-256.
	HashSHA256
	// HashSHA512 selects Hash-DRBG over SHA-512.
	HashSHA512
	// CTRAES128 selects CTR-DRBG (no df) over AES-128.
	CTRAES128
	// CTRAES192 selects CTR-DRBG (no df) over AES-192.
	CTRAES192
	// CTRAES256 selects CTR-DRBG (no df) over AES-256.
	CTRAES256
)

// Config holds the fully-resolved settings an Instance is built from.
// New does not accept a Config directly; it starts from the defaults and
// applies its Option arguments to them.
type Config struct {
	SecurityStrength int
	Personalization  []byte
	Mechanism        MechanismKind
	EntropySource    entropy.Source
}

// Option configures an Instance at construction time, following the
// functional-options convention of the ctrdrbg package's Config type.
type Option func(*Config)

// WithSecurityStrength sets the requested instantiation security
// strength in bits, in [112,256].
func WithSecurityStrength(bits int) Option {
	return func(cfg *Config) { cfg.SecurityStrength = bits }
}

// WithPersonalization sets the personalization string mixed into
// instantiation. Must be at most 32 bytes.
func WithPersonalization(pers []byte) Option {
	return func(cfg *Config) { cfg.Personalization = pers }
}

// WithMechanism selects which underlying SP 800-90A mechanism and
// primitive variant backs the Instance.
func WithMechanism(kind MechanismKind) Option {
	return func(cfg *Config) { cfg.Mechanism = kind }
}

// WithEntropySource overrides the entropy.Source used for the initial
// seed and every subsequent reseed. Defaults to entropy.OSEntropySource
// when not given.
func WithEntropySource(src entropy.Source) Option {
	return func(cfg *Config) { cfg.EntropySource = src }
}

func defaultConfig() Config {
	return Config{
		SecurityStrength: 256,
		Mechanism:        HMACSHA256,
	}
}
