package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const requestAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func GenerateRandomAlphabet(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[RandIntn(len(alphabet))]
	}
	return string(b)
}

// GenerateRequestCode returns a human-facing fulfillment request code of the
// form REQ-XXXXXX. The alphabet skips ambiguous characters (0/O, 1/I).
func GenerateRequestCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = requestAlphabet[RandIntn(len(requestAlphabet))]
	}
	return "REQ-" + string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
