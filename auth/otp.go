package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/ahlgren/helmsman/internal/util"
)

const otpDigits = 6

func generateOtpCode() (string, error) {
	return util.RandomDigits(otpDigits)
}

// otpEqual compares a submitted code against the stored one in constant
// time. Both inputs are hashed first so the comparison cost is independent
// of length and of the position of the first differing byte.
func otpEqual(submitted, stored string) bool {
	a := sha256.Sum256([]byte(submitted))
	b := sha256.Sum256([]byte(stored))
	digestsEqual := subtle.ConstantTimeCompare(a[:], b[:])
	lengthsEqual := subtle.ConstantTimeEq(int32(len(submitted)), int32(len(stored)))
	return digestsEqual&lengthsEqual == 1
}
