package weave_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := weave.Address(b)

		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", b))
		So(weave.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test hexademical condition printing", t, func() {
		cond := weave.NewCondition("sigs", "ed25519", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldEqual, fmt.Sprintf("sigs/ed25519/%X", []byte("ABCD123456LHB")))
		So(weave.Condition("no slashes").String(), ShouldStartWith, "Invalid Condition")
	})
}

func TestConditionParsing(t *testing.T) {
	Convey("conditions", t, func() {
		cond := weave.NewCondition("sigs", "ed25519", []byte{0, 1, '/', '\n'})

		Convey("round trip through Parse", func() {
			ext, typ, data, err := cond.Parse()
			So(err, ShouldBeNil)
			So(ext, ShouldEqual, "sigs")
			So(typ, ShouldEqual, "ed25519")
			So(data, ShouldResemble, []byte{0, 1, '/', '\n'})
			So(cond.Validate(), ShouldBeNil)
		})

		Convey("too short extension is rejected", func() {
			bad := weave.NewCondition("ab", "ed25519", []byte{1})
			So(errors.ErrInput.Is(bad.Validate()), ShouldBeTrue)
		})

		Convey("addresses are stable digests", func() {
			So(cond.Address(), ShouldResemble, cond.Address())
			So(len(cond.Address()), ShouldEqual, weave.AddressLength)
			other := weave.NewCondition("sigs", "ed25519", []byte{0, 1})
			So(cond.Address().Equals(other.Address()), ShouldBeFalse)
		})
	})
}

func TestDeriveAuthority(t *testing.T) {
	escrow := weave.ProgramAddress("escrow")
	token := weave.ProgramAddress("token")

	addr, proof := weave.DeriveAuthority(escrow, []byte("escrow"))
	again, proofAgain := weave.DeriveAuthority(escrow, []byte("escrow"))
	assert.Equal(t, addr, again)
	assert.Equal(t, proof, proofAgain)
	assert.Equal(t, addr, proof.Address())
	require.NoError(t, addr.Validate())

	assert.True(t, proof.DerivedBy(escrow))
	assert.False(t, proof.DerivedBy(token))

	otherSeed, _ := weave.DeriveAuthority(escrow, []byte("vault"))
	assert.False(t, addr.Equals(otherSeed))
	otherProgram, _ := weave.DeriveAuthority(token, []byte("escrow"))
	assert.False(t, addr.Equals(otherProgram))

	// a signature condition is never a derived proof
	sig := weave.NewCondition("sigs", "ed25519", []byte("escrow"))
	assert.False(t, sig.DerivedBy(escrow))

	// well known addresses never collide with each other
	assert.False(t, weave.ProgramAddress("rent").Equals(weave.SysvarAddress("rent")))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	raw := []byte("twenty-byte-address!")
	hexAddr := hex.EncodeToString(raw)
	cond := weave.NewCondition("foo", "bar", []byte("conditiondata"))
	b32, err := weave.Address(raw).Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr weave.Address
	}{
		"default decoding": {
			json:     `"` + hexAddr + `"`,
			wantAddr: weave.Address(raw),
		},
		"hex decoding": {
			json:     `"hex:` + hexAddr + `"`,
			wantAddr: weave.Address(raw),
		},
		"bech32 decoding": {
			json:     `"bech32:` + b32 + `"`,
			wantAddr: weave.Address(raw),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: cond.Address(),
		},
		"short hex address": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"invalid bech32": {
			json:    `"bech32:esc1notreally"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a weave.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := weave.Address([]byte("twenty-byte-address!"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var back weave.Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)
}
