package auth

import "github.com/alexedwards/argon2id"

// passwordParams follows the OWASP argon2id baseline: 19 MiB of memory, two
// passes, a single lane.
var passwordParams = &argon2id.Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword derives an argon2id hash in the standard encoded form.
func HashPassword(plain string) (string, error) {
	return argon2id.CreateHash(plain, passwordParams)
}

// ComparePassword reports whether plain matches the stored encoded hash. A
// malformed hash is an error, not a mismatch.
func ComparePassword(plain, encoded string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, encoded)
}
