package weavetest

import (
	"crypto/rand"
	"testing"

	weave "github.com/iov-one/weave-escrow"
)

// ParseAddress decodes an address in any format weave.ParseAddress accepts
// ("hex:", "bech32:", "cond:") and fails the test on error.
func ParseAddress(t testing.TB, encodedAddress string) weave.Address {
	t.Helper()

	addr, err := weave.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns an address no key or program controls. Use it for
// accounts a test only needs to tell apart.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()

	raw := make([]byte, weave.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot read random bytes: %s", err)
	}
	return weave.Address(raw)
}
