package main

import (
	"flag"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/weavetest/assert"
	"github.com/iov-one/weave-escrow/x/escrow"
)

func TestAddressFlag(t *testing.T) {
	addr := newAddress(t)
	bech, err := addr.Bech32()
	assert.Nil(t, err)

	cases := map[string]struct {
		args    []string
		want    weave.Address
		wantErr bool
	}{
		"default value": {
			args: nil,
			want: nil,
		},
		"hex address": {
			args: []string{"-a", addr.String()},
			want: addr,
		},
		"bech32 address": {
			args: []string{"-a", "bech32:" + bech},
			want: addr,
		},
		"program name": {
			args: []string{"-a", "escrow"},
			want: escrow.ProgramID,
		},
		"invalid hex": {
			args:    []string{"-a", "zz"},
			wantErr: true,
		},
		"short address": {
			args:    []string{"-a", "0102"},
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			fl := flag.NewFlagSet("", flag.ContinueOnError)
			fl.SetOutput(nopWriter{})
			a := flAddress(fl, "a", "", "")
			err := fl.Parse(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, *a)
		})
	}
}

func TestRequireAddresses(t *testing.T) {
	err := requireAddresses(map[string]weave.Address{
		"set":     newAddress(t),
		"zeta":    nil,
		"another": nil,
	})
	if err == nil {
		t.Fatal("want error")
	}
	assert.Equal(t, "required flags not set: -another, -zeta", err.Error())

	assert.Nil(t, requireAddresses(map[string]weave.Address{"set": newAddress(t)}))
}

func TestProgramName(t *testing.T) {
	assert.Equal(t, "escrow", programName(escrow.ProgramID))
	assert.Equal(t, "", programName(newAddress(t)))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
