package utils

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	accountNumberPrefix = "ACC"
	transactionPrefix   = "TXN"

	accountRandomLen     = 6
	transactionRandomLen = 10
)

// randomBase36 returns n characters drawn from the base-36 alphabet using
// crypto/rand.
func randomBase36(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	var sb strings.Builder
	sb.Grow(n)
	for _, c := range b {
		sb.WriteByte(base36Alphabet[int(c)%len(base36Alphabet)])
	}
	return sb.String(), nil
}

func timestampBase36() string {
	return strings.ToUpper(strconv.FormatInt(time.Now().UTC().UnixMilli(), 36))
}

// NewAccountNumber generates a human-traceable account number: the ACC
// prefix, a timestamp-derived base-36 suffix and a random base-36 payload.
// Global uniqueness is ultimately enforced by the unique index on
// accounts.account_number; callers retry on a duplicate.
func NewAccountNumber() (string, error) {
	ts := timestampBase36()
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	payload, err := randomBase36(accountRandomLen)
	if err != nil {
		return "", err
	}
	return accountNumberPrefix + ts + payload, nil
}

// NewTransactionRef generates a transaction reference: same shape as an
// account number but with the full timestamp and a longer random payload.
func NewTransactionRef() (string, error) {
	payload, err := randomBase36(transactionRandomLen)
	if err != nil {
		return "", err
	}
	return transactionPrefix + timestampBase36() + payload, nil
}
