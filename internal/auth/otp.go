package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPTTL is how long a signup code stays valid after it's issued.
const OTPTTL = 5 * time.Minute

// GenerateOTP returns a 6-digit numeric one-time code.
//
// crypto/rand, not math/rand — the code is a credential, so it must be
// unpredictable. The range is [100000, 999999] so the code is always exactly
// six digits and never needs zero-padding.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("auth: generating otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
