// Package pqc holds the cryptographic algorithm dictionary and its post-quantum safety
// classification. Both the finding-derived and the source-pattern classifier consult the
// same table, in order.
package pqc

import (
	"regexp"

	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

const (
	recommendMLKEM  = "Migrate to ML-KEM (FIPS 203), optionally in a hybrid construction during transition"
	recommendMLDSA  = "Migrate to ML-DSA (FIPS 204) or SLH-DSA (FIPS 205)"
	recommendAES256 = "Replace with AES-256 in an AEAD mode (e.g. AES-256-GCM)"
	recommendSHA    = "Replace with SHA-256 or stronger, or SHA-3"
)

// Algorithm is one dictionary entry.
type Algorithm struct {
	Name           string
	Primitive      types.Primitive
	Safety         types.QuantumSafety
	Recommendation string
	NISTStandard   string

	pattern *regexp.Regexp
}

// Entries are matched in order; an earlier entry claims the text it matches so that, for
// example, "ML-DSA" is never also reported as "DSA". Patterns carry no word boundaries; the
// matcher applies its own identifier-aware boundary check.
var table = []*Algorithm{
	// Post-quantum
	{Name: "ML-KEM", Primitive: types.PrimitiveKEM, Safety: types.QuantumSafe, NISTStandard: "FIPS 203",
		pattern: regexp.MustCompile(`(?i)(?:ml[-_]?kem(?:[-_]?(?:512|768|1024))?|kyber(?:[-_]?(?:512|768|1024))?)`)},
	{Name: "ML-DSA", Primitive: types.PrimitiveSignature, Safety: types.QuantumSafe, NISTStandard: "FIPS 204",
		pattern: regexp.MustCompile(`(?i)(?:ml[-_]?dsa(?:[-_]?(?:44|65|87))?|dilithium[2-5]?)`)},
	{Name: "SLH-DSA", Primitive: types.PrimitiveSignature, Safety: types.QuantumSafe, NISTStandard: "FIPS 205",
		pattern: regexp.MustCompile(`(?i)(?:slh[-_]?dsa|sphincs(?:plus|\+)?)`)},

	// Hashes and XOFs
	{Name: "SHAKE128", Primitive: types.PrimitiveXOF, Safety: types.QuantumSafe, NISTStandard: "FIPS 202",
		pattern: regexp.MustCompile(`(?i)shake[-_]?128`)},
	{Name: "SHAKE256", Primitive: types.PrimitiveXOF, Safety: types.QuantumSafe, NISTStandard: "FIPS 202",
		pattern: regexp.MustCompile(`(?i)shake[-_]?256`)},
	{Name: "SHA-3", Primitive: types.PrimitiveHash, Safety: types.QuantumSafe, NISTStandard: "FIPS 202",
		pattern: regexp.MustCompile(`(?i)(?:sha[-_]?3(?:[-_]?(?:224|256|384|512))?|keccak(?:[-_]?256)?)`)},
	{Name: "BLAKE2", Primitive: types.PrimitiveHash, Safety: types.QuantumSafe,
		pattern: regexp.MustCompile(`(?i)blake2(?:b|s|bp|sp)?`)},
	{Name: "SHA-512", Primitive: types.PrimitiveHash, Safety: types.QuantumSafe, NISTStandard: "FIPS 180-4",
		pattern: regexp.MustCompile(`(?i)sha[-_]?(?:384|512)`)},
	{Name: "SHA-256", Primitive: types.PrimitiveHash, Safety: types.QuantumSafe, NISTStandard: "FIPS 180-4",
		pattern: regexp.MustCompile(`(?i)sha[-_]?(?:224|256)`)},
	// SHA-1, MD5, DES, 3DES and RC4 are broken classically and count as vulnerable.
	{Name: "SHA-1", Primitive: types.PrimitiveHash, Safety: types.QuantumVulnerable, Recommendation: recommendSHA,
		pattern: regexp.MustCompile(`(?i)sha[-_]?1`)},
	{Name: "MD5", Primitive: types.PrimitiveHash, Safety: types.QuantumVulnerable, Recommendation: recommendSHA,
		pattern: regexp.MustCompile(`(?i)md5`)},

	// Classical asymmetric. Curve-specific names come before the generic families.
	{Name: "X25519", Primitive: types.PrimitiveKeyAgreement, Safety: types.QuantumVulnerable, Recommendation: recommendMLKEM,
		pattern: regexp.MustCompile(`(?i)(?:x25519|curve25519)`)},
	{Name: "X448", Primitive: types.PrimitiveKeyAgreement, Safety: types.QuantumVulnerable, Recommendation: recommendMLKEM,
		pattern: regexp.MustCompile(`(?i)(?:x448|curve448)`)},
	{Name: "Ed25519", Primitive: types.PrimitiveSignature, Safety: types.QuantumVulnerable, Recommendation: recommendMLDSA,
		pattern: regexp.MustCompile(`(?i)(?:ed25519|eddsa)`)},
	{Name: "Ed448", Primitive: types.PrimitiveSignature, Safety: types.QuantumVulnerable, Recommendation: recommendMLDSA,
		pattern: regexp.MustCompile(`(?i)ed448`)},
	{Name: "ECDSA", Primitive: types.PrimitiveSignature, Safety: types.QuantumVulnerable, Recommendation: recommendMLDSA,
		pattern: regexp.MustCompile(`(?i)ecdsa`)},
	{Name: "ECDH", Primitive: types.PrimitiveKeyAgreement, Safety: types.QuantumVulnerable, Recommendation: recommendMLKEM,
		pattern: regexp.MustCompile(`(?i)ecdhe?`)},
	{Name: "RSA", Primitive: types.PrimitivePKE, Safety: types.QuantumVulnerable, Recommendation: recommendMLKEM,
		pattern: regexp.MustCompile(`(?i)rsa(?:ssa[-_]?(?:pss|pkcs1[-_]?v1[-_]?5)|[-_]?(?:oaep|pss))?`)},
	{Name: "DSA", Primitive: types.PrimitiveSignature, Safety: types.QuantumVulnerable, Recommendation: recommendMLDSA,
		pattern: regexp.MustCompile(`(?i)dsa`)},
	{Name: "DH", Primitive: types.PrimitiveKeyAgreement, Safety: types.QuantumVulnerable, Recommendation: recommendMLKEM,
		pattern: regexp.MustCompile(`(?i)(?:diffie[-_ ]?hellman|dhe?)`)},

	// Symmetric. AES is treated as safe regardless of key size.
	{Name: "AES", Primitive: types.PrimitiveSymmetric, Safety: types.QuantumSafe, NISTStandard: "FIPS 197",
		pattern: regexp.MustCompile(`(?i)aes(?:[-_]?(?:128|192|256))?(?:[-_]?(?:gcm|cbc|ctr|ecb|ccm|ofb|cfb|siv|kw))?`)},
	{Name: "3DES", Primitive: types.PrimitiveSymmetric, Safety: types.QuantumVulnerable, Recommendation: recommendAES256,
		pattern: regexp.MustCompile(`(?i)(?:3des|triple[-_]?des|des[-_]?ede3?|tdea)`)},
	{Name: "DES", Primitive: types.PrimitiveSymmetric, Safety: types.QuantumVulnerable, Recommendation: recommendAES256,
		pattern: regexp.MustCompile(`(?i)des`)},
	{Name: "RC4", Primitive: types.PrimitiveSymmetric, Safety: types.QuantumVulnerable, Recommendation: recommendAES256,
		pattern: regexp.MustCompile(`(?i)(?:rc4|arc4|arcfour)`)},
}

// Algorithms returns the dictionary in match order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(table))
	for i, a := range table {
		out[i] = *a
	}
	return out
}
