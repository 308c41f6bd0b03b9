package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/weavetest/assert"
)

func TestKeygen(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowcli-keygen")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	keyPath := filepath.Join(dir, "key")

	var out bytes.Buffer
	assert.Nil(t, cmdKeygen(nil, &out, []string{"-key", keyPath}))

	key, err := crypto.LoadPrivateKey(keyPath)
	assert.Nil(t, err)
	assert.Equal(t, key.PublicKey().Address().String(), strings.TrimSpace(out.String()))

	// Existing key is never overwritten.
	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}); err == nil {
		t.Fatal("want error")
	}
	again, err := crypto.LoadPrivateKey(keyPath)
	assert.Nil(t, err)
	assert.Equal(t, key, again)
}

func TestKeyaddr(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowcli-keyaddr")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	keyPath := filepath.Join(dir, "key")

	key := crypto.GenPrivKeyEd25519()
	assert.Nil(t, crypto.SavePrivateKey(key, keyPath, false))
	addr := key.PublicKey().Address()

	var out bytes.Buffer
	assert.Nil(t, cmdKeyaddr(nil, &out, []string{"-key", keyPath}))
	assert.Equal(t, addr.String()+"\n", out.String())

	out.Reset()
	assert.Nil(t, cmdKeyaddr(nil, &out, []string{"-key", keyPath, "-bech32"}))
	bech, err := addr.Bech32()
	assert.Nil(t, err)
	assert.Equal(t, "bech32:"+bech+"\n", out.String())

	if err := cmdKeyaddr(nil, ioutil.Discard, []string{"-key", filepath.Join(dir, "missing")}); err == nil {
		t.Fatal("want error")
	}
}
