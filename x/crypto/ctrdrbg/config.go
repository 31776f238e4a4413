// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.
//
// Package ctrdrbg provides configuration types and functional options for the
// AES-CTR-DRBG (Deterministic Random Bit Generator) cryptographically secure pseudo-random number generator.
//
// The Config type exposes tunable parameters for the DRBG pool, instance management, and
// cryptographic behavior. These options support both security and operational flexibility.

package ctrdrbg

// Config defines the tunable parameters for AES-CTR-DRBG instances and the DRBG pool.
//
// It supports fine-grained control over key size, key rotation, and instance
// personalization, enabling security-focused customization for a variety of use cases.
// Rekeying is synchronous: when MaxBytesPerKey is reached, the pooled Reader reseeds
// inline on the next Read rather than in a background goroutine, so there is no
// backoff schedule or retry budget to configure for it.
//
// Fields:
//   - KeySize: AES key length (16, 24, or 32 bytes for AES-128, -192, or -256).
//   - MaxBytesPerKey: Max output per key before automatic rekeying (forward secrecy).
//   - MaxInitRetries: Number of retries for DRBG pool initialization before panic.
//   - EnableKeyRotation: Whether to enable automatic key rotation (default: true).
//   - Personalization: Optional per-instance byte string for domain separation.
type Config struct {
	// Personalization provides a per-instance personalization string, which is XOR-ed into the
	// DRBGâ€™s initial seed to support domain separation or unique generator state.
	//
	// Purpose:
	// - Ensures cryptographic independence of DRBG streams even if seeds or environments overlap.
	// - Enables strong domain separation by context (service, user, tenant, device, etc.).
	//
	// Example:
	//   To ensure that two DRBGs used for "auth" and "billing" services are cryptographically isolated,
	//   pass unique byte strings (e.g., []byte("auth-service-v1") and []byte("billing-service-v1"))
	//   via WithPersonalization to their respective NewReader calls.
	//
	//   r1, _ := ctrdrbg.NewReader(ctrdrbg.WithPersonalization([]byte("auth-service-v1")))
	//   r2, _ := ctrdrbg.NewReader(ctrdrbg.WithPersonalization([]byte("billing-service-v1")))
	//
	// When unset (nil), no personalization is applied.
	Personalization []byte

	// MaxBytesPerKey is the maximum number of bytes generated per key before triggering automatic rekeying.
	//
	// Rekeying after a fixed output window enforces forward secrecy and mitigates key exposure risk.
	// If set to zero, a default value of 1 GiB (1 << 30) is used.
	MaxBytesPerKey uint64

	// KeySize is the AES key length in bytes (16, 24, or 32).
	//
	// Valid values:
	//   - 16 (AES-128)
	//   - 24 (AES-192)
	//   - 32 (AES-256)
	//
	// Default: 32 (AES-256).
	KeySize int

	// MaxInitRetries is the maximum number of attempts to initialize a DRBG pool entry before giving up and panicking.
	//
	// Initialization can fail if system entropy is exhausted or if the cryptographic backend is unavailable.
	// If set to zero, a default of 3 is used.
	MaxInitRetries int

	// EnableKeyRotation controls whether DRBG instances automatically rotate their key after MaxBytesPerKey output.
	//
	// Automatic key rotation provides forward secrecy and aligns with cryptographic best practices.
	// Defaults to true.
	EnableKeyRotation bool

	// Shards is the number of independent sync.Pool shards the package-level and NewReader
	// Readers spread load across, reducing contention under concurrent use.
	//
	// If set to zero, a default of 1 is used (no sharding).
	Shards int
}

// Default configuration constants for AES-CTR-DRBG.
const (
	defaultKeySize     = KeySize256 // Default AES key size (32 bytes for AES-256)
	defaultMaxBytes    = 1 << 30    // Default max bytes per key (1 GiB)
	defaultInitRetries = 3          // Default max initialization retries
	defaultShards      = 1          // Default pool shard count
)

// DefaultConfig returns a Config struct populated with production-safe, recommended defaults.
//
// Defaults:
//   - KeySize: 32 bytes (AES-256)
//   - MaxBytesPerKey: 1 GiB (1 << 30)
//   - MaxInitRetries: 3
//   - EnableKeyRotation: true
//   - Personalization: nil (no domain separation)
//
// Example usage:
//
//	cfg := ctrdrbg.DefaultConfig()
func DefaultConfig() Config {
	return Config{
		KeySize:           defaultKeySize,
		MaxBytesPerKey:    defaultMaxBytes,
		MaxInitRetries:    defaultInitRetries,
		EnableKeyRotation: true,
		Personalization:   nil,
		Shards:            defaultShards,
	}
}

// Option defines a functional option for customizing a Config.
//
// Use Option values with NewReader or other constructors that accept variadic options.
//
// Example:
//
//	r, err := ctrdrbg.NewReader(
//	    ctrdrbg.WithKeySize(32),
//	    ctrdrbg.WithPersonalization([]byte("service-A")),
//	)
type Option func(*Config)

// WithKeySize returns an Option that sets the AES key length in bytes.
//
// Acceptable values: 16 (AES-128), 24 (AES-192), 32 (AES-256).
func WithKeySize(n int) Option { return func(cfg *Config) { cfg.KeySize = n } }

// WithMaxBytesPerKey returns an Option that sets the maximum output (in bytes) per key before rekeying.
//
// Recommended to lower for higher security or compliance regimes.
func WithMaxBytesPerKey(n uint64) Option { return func(cfg *Config) { cfg.MaxBytesPerKey = n } }

// WithMaxInitRetries returns an Option that sets the maximum number of DRBG pool initialization retries.
//
// Use for customizing startup reliability and error handling.
func WithMaxInitRetries(n int) Option { return func(cfg *Config) { cfg.MaxInitRetries = n } }

// WithEnableKeyRotation returns an Option that enables or disables automatic key rotation.
//
// Disable only if you understand and accept the security risk.
func WithEnableKeyRotation(enable bool) Option {
	return func(cfg *Config) { cfg.EnableKeyRotation = enable }
}

// WithPersonalization returns an Option that sets a per-instance personalization string for DRBG state separation.
//
// Rationale:
//   - Ensures domain separation, i.e., two DRBG instances with the same system seed but different personalization
//     strings will output completely different random streams.
//   - Use for tenant, user, application, or service isolation.
//
// Example:
//
//	ctrdrbg.NewReader(
//	    ctrdrbg.WithPersonalization([]byte("tenant-42-prod")),
//	)
func WithPersonalization(p []byte) Option {
	return func(cfg *Config) { cfg.Personalization = p }
}

// WithShards returns an Option that sets the number of sync.Pool shards backing a Reader.
//
// Higher shard counts reduce contention for highly concurrent callers at the cost of
// maintaining more independent mechanism instances.
func WithShards(n int) Option { return func(cfg *Config) { cfg.Shards = n } }
