package util

import (
	"math/rand"
)

const (
	orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderIDLength   = 8
)

// GenerateOrderID returns an 8-character uppercase alphanumeric confirmation
// code. It is a display artifact, not a security token.
func GenerateOrderID() string {
	b := make([]byte, orderIDLength)
	for i := range b {
		b[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return string(b)
}
