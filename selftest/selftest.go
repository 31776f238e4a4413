// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package selftest is the SP 800-90A-style health-check harness: it
// drives each mechanism's known-answer-test vectors and a set of
// envelope negative-path checks, and reports a failure count rather
// than panicking or logging, so callers (the CLI, or an embedder's own
// startup sequence) decide what to do with the result.
package selftest

import (
	"bytes"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sixafter/drbg"
	"github.com/sixafter/drbg/x/crypto/ctrdrbg"
	"github.com/sixafter/drbg/x/crypto/hashdrbg"
	"github.com/sixafter/drbg/x/crypto/hmacdrbg"
)

//go:embed testdata/*.json
var fixturesFS embed.FS

// katFixture is the JSON record shape for one known-answer-test vector.
// Add holds the two additional-input strings (first-generate-call,
// second-generate-call) a vector may specify; either or both may be
// absent.
type katFixture struct {
	Name     string     `json:"name"`
	Entropy  string     `json:"entropy_hex"`
	Nonce    string     `json:"nonce_hex"`
	Pers     string     `json:"pers_hex,omitempty"`
	Add      [2]*string `json:"add_hex,omitempty"`
	Expected string     `json:"expected_hex"`
}

// mechanismSuite names a single fixture file and the constructor used
// to build the mechanism under test from each fixture's hex fields.
type mechanismSuite struct {
	fixtureFile string
	build       func(entropy, nonce, pers []byte) (generator, error)
}

// generator is the minimal capability runMechanismKATs needs: produce
// two successive outputs of the expected length and compare the
// second against the fixture's expected_hex, mirroring the reference
// source's "second generate call must match" KAT convention.
type generator interface {
	Generate(out, add []byte) error
}

var suites = map[string]mechanismSuite{
	"hmac-sha256": {"hmac_sha256.json", func(e, n, p []byte) (generator, error) { return hmacdrbg.NewSHA256(e, n, p) }},
	"hmac-sha512": {"hmac_sha512.json", func(e, n, p []byte) (generator, error) { return hmacdrbg.NewSHA512(e, n, p) }},
	"hash-sha256": {"hash_sha256.json", func(e, n, p []byte) (generator, error) { return hashdrbg.NewSHA256(e, n, p) }},
	"hash-sha512": {"hash_sha512.json", func(e, n, p []byte) (generator, error) { return hashdrbg.NewSHA512(e, n, p) }},
	"ctr-aes128":  {"ctr_aes128.json", func(e, _, p []byte) (generator, error) { return ctrdrbg.NewAES128(e, p) }},
	"ctr-aes192":  {"ctr_aes192.json", func(e, _, p []byte) (generator, error) { return ctrdrbg.NewAES192(e, p) }},
	"ctr-aes256":  {"ctr_aes256.json", func(e, _, p []byte) (generator, error) { return ctrdrbg.NewAES256(e, p) }},
}

// Result reports the outcome of one named check: a single KAT vector
// or a single envelope negative-path assertion.
type Result struct {
	Name string
	Err  error
}

// RunAll runs every mechanism's known-answer tests and the envelope's
// negative-path checks, returning the total failure count and the
// per-check results. verbose, the Go analogue of the reference
// source's OVERALL_TEST_RUN flag, is threaded explicitly as a
// parameter rather than held in a package-level mutable flag, so two
// goroutines (or two CLI invocations within one process) running
// RunAll concurrently do not interfere with one another.
func RunAll(verbose bool) (failures int, results []Result, err error) {
	for _, mechName := range sortedMechanismNames() {
		suite := suites[mechName]
		rs, rerr := runMechanismKATs(mechName, suite)
		if rerr != nil {
			return failures, results, rerr
		}
		results = append(results, rs...)
	}

	results = append(results, runEnvelopeChecks()...)

	for _, r := range results {
		if r.Err != nil {
			failures++
			if verbose {
				fmt.Printf("FAIL %s: %v\n", r.Name, r.Err)
			}
		} else if verbose {
			fmt.Printf("PASS %s\n", r.Name)
		}
	}

	return failures, results, nil
}

// RunSelfTests is the minimal external-interface entry point (§6):
// RunAll without verbose output or per-check detail, for callers that
// only need a pass/fail count.
func RunSelfTests() (failures int, err error) {
	failures, _, err = RunAll(false)
	return failures, err
}

func sortedMechanismNames() []string {
	return []string{
		"hmac-sha256", "hmac-sha512",
		"hash-sha256", "hash-sha512",
		"ctr-aes128", "ctr-aes192", "ctr-aes256",
	}
}

func runMechanismKATs(mechName string, suite mechanismSuite) ([]Result, error) {
	raw, err := fixturesFS.ReadFile("testdata/" + suite.fixtureFile)
	if err != nil {
		return nil, fmt.Errorf("selftest: reading %s: %w", suite.fixtureFile, err)
	}

	var fixtures []katFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("selftest: parsing %s: %w", suite.fixtureFile, err)
	}

	results := make([]Result, 0, len(fixtures))
	for _, fx := range fixtures {
		results = append(results, runOneKAT(mechName, suite, fx))
	}
	return results, nil
}

func runOneKAT(mechName string, suite mechanismSuite, fx katFixture) Result {
	name := fmt.Sprintf("%s/%s", mechName, fx.Name)

	entropyBytes, err := hex.DecodeString(fx.Entropy)
	if err != nil {
		return Result{name, fmt.Errorf("decoding entropy_hex: %w", err)}
	}
	nonceBytes, err := hex.DecodeString(fx.Nonce)
	if err != nil {
		return Result{name, fmt.Errorf("decoding nonce_hex: %w", err)}
	}
	persBytes, err := hex.DecodeString(fx.Pers)
	if err != nil {
		return Result{name, fmt.Errorf("decoding pers_hex: %w", err)}
	}
	expected, err := hex.DecodeString(fx.Expected)
	if err != nil {
		return Result{name, fmt.Errorf("decoding expected_hex: %w", err)}
	}

	g, err := suite.build(entropyBytes, nonceBytes, persBytes)
	if err != nil {
		return Result{name, fmt.Errorf("constructing mechanism: %w", err)}
	}

	add0, err := decodeOptional(fx.Add[0])
	if err != nil {
		return Result{name, fmt.Errorf("decoding add_hex[0]: %w", err)}
	}
	add1, err := decodeOptional(fx.Add[1])
	if err != nil {
		return Result{name, fmt.Errorf("decoding add_hex[1]: %w", err)}
	}

	out := make([]byte, len(expected))
	if err := g.Generate(out, add0); err != nil {
		return Result{name, fmt.Errorf("first generate: %w", err)}
	}
	if err := g.Generate(out, add1); err != nil {
		return Result{name, fmt.Errorf("second generate: %w", err)}
	}

	if !bytes.Equal(out, expected) {
		return Result{name, fmt.Errorf("second-generate output mismatch: got %x want %x", out, expected)}
	}
	return Result{name, nil}
}

func decodeOptional(s *string) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return hex.DecodeString(*s)
}

// runEnvelopeChecks exercises the boundary behaviors the envelope must
// enforce, independent of any stored KAT vector: these are the
// negative-path checks a reference source's own self-test suite runs
// alongside its KATs, re-expressed against the Go envelope's API.
func runEnvelopeChecks() []Result {
	var results []Result

	check := func(name string, fn func() error) {
		results = append(results, Result{"envelope/" + name, fn()})
	}

	check("security-strength-too-low-rejected", func() error {
		_, err := drbg.New(drbg.WithSecurityStrength(111))
		return expectError(err)
	})
	check("security-strength-too-high-rejected", func() error {
		_, err := drbg.New(drbg.WithSecurityStrength(257))
		return expectError(err)
	})
	check("security-strength-minimum-accepted", func() error {
		_, err := drbg.New(drbg.WithSecurityStrength(112))
		return err
	})
	check("personalization-at-limit-accepted", func() error {
		_, err := drbg.New(drbg.WithPersonalization(make([]byte, 32)))
		return err
	})
	check("personalization-over-limit-rejected", func() error {
		_, err := drbg.New(drbg.WithPersonalization(make([]byte, 33)))
		return expectError(err)
	})
	check("request-at-max-accepted", func() error {
		inst, err := drbg.New()
		if err != nil {
			return err
		}
		return inst.Generate(make([]byte, drbg.MaxPerRequest), 0, false, nil)
	})
	check("request-over-max-rejected", func() error {
		inst, err := drbg.New()
		if err != nil {
			return err
		}
		return expectError(inst.Generate(make([]byte, drbg.MaxPerRequest+1), 0, false, nil))
	})
	check("security-strength-exceeds-instance-rejected", func() error {
		inst, err := drbg.New(drbg.WithSecurityStrength(128), drbg.WithMechanism(drbg.CTRAES128))
		if err != nil {
			return err
		}
		return expectError(inst.Generate(make([]byte, 16), 256, false, nil))
	})
	check("generate-after-uninstantiate-rejected", func() error {
		inst, err := drbg.New()
		if err != nil {
			return err
		}
		if err := inst.Uninstantiate(); err != nil {
			return err
		}
		return expectError(inst.Generate(make([]byte, 16), 0, false, nil))
	})

	return results
}

func expectError(err error) error {
	if err == nil {
		return fmt.Errorf("expected an error, got nil")
	}
	return nil
}
