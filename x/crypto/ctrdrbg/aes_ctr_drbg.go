// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrdrbg

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"sync"

	"github.com/sixafter/drbg/drbgerr"
)

// Reader is a package-level, cryptographically secure random source suitable for high-concurrency applications.
//
// Reader is initialized at package load time via NewReader and is safe for concurrent use. If initialization fails
// (for example, if crypto/rand is unavailable), the package will panic. This ensures that any failure to obtain a secure
// entropy source is detected immediately and not silently ignored.
//
// Example usage:
//
//	buf := make([]byte, 64)
//	_, err := ctrdrbg.Reader.Read(buf)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("Random data: %x\n", buf)
var Reader io.Reader

// Interface defines the contract for a NIST SP 800-90A AES-CTR-DRBG random source.
//
// Implementations provide cryptographically secure random bytes via io.Reader,
// and expose the non-secret, immutable configuration used at construction time.
//
// All methods are safe for concurrent use unless otherwise specified.
type Interface interface {
	io.Reader

	// Config returns a copy of the DRBG configuration in use by this instance.
	// The returned Config does not include secrets or mutable runtime state.
	Config() Config
}

// init initializes the package-level Reader. It panics if NewReader fails, preventing operation without
// a secure random source. This follows cryptographic best practices by making entropy failure a fatal error.
func init() {
	r, err := newReaderFromConfig(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("ctrdrbg: package Reader initialization failed: %v", err))
	}
	Reader = r
}

// reader is an internal implementation of io.Reader that uses a pool of mechanism
// instances to support efficient concurrent random byte generation.
type reader struct {
	pools []*sync.Pool
	cfg   Config
}

// NewReader constructs and returns an io.Reader that produces cryptographically secure
// random bytes using a pool of CTR-DRBG (no df) mechanism instances. Functional options may
// be supplied to customize key size, key rotation, and pool sharding. Each generator is
// seeded with entropy from crypto/rand.
//
// The returned Reader is safe for concurrent use. If no generator can be created,
// NewReader returns an error.
//
// Example:
//
//	r, err := ctrdrbg.NewReader(ctrdrbg.WithKeySize(ctrdrbg.KeySize256))
//	if err != nil {
//	    // handle error
//	}
//
//	buf := make([]byte, 32)
//	n, err := r.Read(buf)
func NewReader(opts ...Option) (Interface, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newReaderFromConfig(cfg)
}

func newReaderFromConfig(cfg Config) (Interface, error) {
	switch cfg.KeySize {
	case KeySize128, KeySize192, KeySize256:
	default:
		return nil, fmt.Errorf("ctrdrbg: invalid key size %d bytes; must be 16, 24, or 32", cfg.KeySize)
	}
	if cfg.Shards <= 0 {
		cfg.Shards = defaultShards
	}
	if cfg.MaxBytesPerKey == 0 {
		cfg.MaxBytesPerKey = defaultMaxBytes
	}
	if cfg.MaxInitRetries <= 0 {
		cfg.MaxInitRetries = defaultInitRetries
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		shardCfg := cfg
		pools[i] = &sync.Pool{
			New: func() interface{} {
				var (
					d   *pooledMech
					err error
				)
				for r := 0; r < shardCfg.MaxInitRetries; r++ {
					if d, err = newPooledMech(&shardCfg); err == nil {
						return d
					}
				}
				panic(fmt.Sprintf("ctrdrbg: pool init failed after %d retries: %v", shardCfg.MaxInitRetries, err))
			},
		}

		// Eagerly test the pool initialization to ensure that any catastrophic
		// failure is caught immediately, not deferred to the first use.
		var panicErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					panicErr = fmt.Errorf("ctrdrbg: pool initialization failed: %v", r)
				}
			}()
			item := pools[i].Get()
			pools[i].Put(item)
		}()
		if panicErr != nil {
			return nil, panicErr
		}
	}

	return &reader{pools: pools, cfg: cfg}, nil
}

// Config returns a copy of the reader's static configuration. No secret key material
// or mechanism runtime state is included.
func (r *reader) Config() Config { return r.cfg }

// shardIndex selects a pseudo-random shard index in [0, n) using a fast,
// non-cryptographic RNG, purely to spread load across pool shards.
func shardIndex(n int) int {
	return mrand.IntN(n)
}

// Read fills the provided buffer with cryptographically secure random data.
func (r *reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	n := len(r.pools)
	shard := 0
	if n > 1 {
		shard = shardIndex(n)
	}

	d := r.pools[shard].Get().(*pooledMech)
	defer r.pools[shard].Put(d)

	return d.Read(b)
}

// pooledMech wraps a CTR-DRBG mechanism instance with the key-rotation
// bookkeeping (rekey after MaxBytesPerKey output) the pooled Reader adds on
// top of the bare mechanism's reseed-on-exhaustion behavior. A pooledMech is
// borrowed from exactly one sync.Pool shard at a time, so it is never
// accessed by two goroutines at once and needs no internal locking -- this
// mirrors the mechanism's own single-owner, non-reentrant contract.
type pooledMech struct {
	m     *Mech
	cfg   *Config
	usage uint64
}

func newPooledMech(cfg *Config) (*pooledMech, error) {
	m, err := freshMech(cfg)
	if err != nil {
		return nil, err
	}
	return &pooledMech{m: m, cfg: cfg}, nil
}

func freshMech(cfg *Config) (*Mech, error) {
	entropy := make([]byte, cfg.KeySize+BlockLen)
	if _, err := io.ReadFull(rand.Reader, entropy); err != nil {
		return nil, err
	}

	switch cfg.KeySize {
	case KeySize128:
		return NewAES128(entropy, cfg.Personalization)
	case KeySize192:
		return NewAES192(entropy, cfg.Personalization)
	default:
		return NewAES256(entropy, cfg.Personalization)
	}
}

// Read implements io.Reader by delegating to the wrapped mechanism's
// Generate, transparently reseeding (with fresh crypto/rand entropy) on
// ErrReseedRequired and, if key rotation is enabled, proactively after
// MaxBytesPerKey bytes have been produced since the last reseed.
func (d *pooledMech) Read(b []byte) (int, error) {
	n := len(b)
	if n == 0 {
		return 0, nil
	}

	if err := d.m.Generate(b, nil); err != nil {
		if !errors.Is(err, drbgerr.ErrReseedRequired) {
			return 0, err
		}
		if err := d.reseed(); err != nil {
			return 0, err
		}
		if err := d.m.Generate(b, nil); err != nil {
			return 0, err
		}
	}

	if d.cfg.EnableKeyRotation {
		d.usage += uint64(n)
		if d.usage >= d.cfg.MaxBytesPerKey {
			if err := d.reseed(); err != nil {
				return 0, err
			}
		}
	}

	return n, nil
}

func (d *pooledMech) reseed() error {
	entropy := make([]byte, d.cfg.KeySize+BlockLen)
	if _, err := io.ReadFull(rand.Reader, entropy); err != nil {
		return err
	}
	if err := d.m.Reseed(entropy, nil); err != nil {
		return err
	}
	d.usage = 0
	return nil
}
