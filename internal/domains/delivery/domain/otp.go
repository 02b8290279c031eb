package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	// CodeDigits is the length of the numeric delivery code.
	CodeDigits = 6
	// DefaultTTL is how long a code stays valid after generation.
	DefaultTTL = 10 * time.Minute
	// DefaultAttempts caps wrong submissions before the code is invalidated.
	DefaultAttempts = 5
)

var (
	ErrExpired           = errors.New("delivery code has expired")
	ErrMismatch          = errors.New("delivery code does not match")
	ErrAttemptsExhausted = errors.New("delivery code attempts exhausted")
	ErrConsumed          = errors.New("delivery code already used")
)

// Otp is the hashed one-time delivery code bound to an order. The plaintext
// code never lives in this aggregate; it is handed to the notifier at
// generation time and discarded.
type Otp struct {
	OrderID           uuid.UUID
	CodeHash          string
	ExpiresAt         time.Time
	AttemptsRemaining int
	Consumed          bool
	CreatedAt         time.Time
}

// GenerateCode draws a uniformly random numeric code from crypto/rand.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeDigits, n), nil
}

// HashCode produces the stored digest for a plaintext code.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// NewOtp binds a freshly generated code hash to an order.
func NewOtp(orderID uuid.UUID, codeHash string, now time.Time) *Otp {
	return &Otp{
		OrderID:           orderID,
		CodeHash:          codeHash,
		ExpiresAt:         now.Add(DefaultTTL),
		AttemptsRemaining: DefaultAttempts,
		CreatedAt:         now,
	}
}

// Verify checks the submitted code against the stored hash. A mismatch
// burns one attempt; success consumes the code. The hash comparison is
// constant-time so verification leaks nothing through timing.
func (o *Otp) Verify(submitted string, now time.Time) error {
	if o.Consumed {
		return ErrConsumed
	}
	if o.AttemptsRemaining <= 0 {
		return ErrAttemptsExhausted
	}
	if now.After(o.ExpiresAt) {
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(HashCode(submitted)), []byte(o.CodeHash)) != 1 {
		o.AttemptsRemaining--
		if o.AttemptsRemaining <= 0 {
			return ErrAttemptsExhausted
		}
		return ErrMismatch
	}
	o.Consumed = true
	return nil
}
