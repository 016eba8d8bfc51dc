// Package randx provides helpers for generating random credentials from
// the system CSPRNG.
package randx

import "crypto/rand"

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789"

// SuggestedTokenLength is the length of tokens produced by SuggestToken.
const SuggestedTokenLength = 16

// SuggestToken generates a random 16-character access token drawn uniformly
// from the alphanumeric alphabet. The result is advisory: callers may still
// supply their own token at registration.
//
// It returns an error only if the random number generator fails.
func SuggestToken() (string, error) {
	return randomString(SuggestedTokenLength, tokenAlphabet)
}

// randomString builds a string of n symbols drawn uniformly from alphabet.
// Rejection sampling keeps the distribution uniform: bytes that would bias
// the modulo reduction are discarded.
func randomString(n int, alphabet string) (string, error) {
	out := make([]byte, 0, n)
	// Largest multiple of len(alphabet) that fits in a byte.
	limit := 256 - 256%len(alphabet)

	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
