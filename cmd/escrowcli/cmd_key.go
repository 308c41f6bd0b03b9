package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/weave-escrow/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with hex encoded private key is created and the
address of the key is printed. This command fails if the private key file
already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key := crypto.GenPrivKeyEd25519()
	// Do not allow to overwrite already existing private key. User must
	// manually delete it first.
	if err := crypto.SavePrivateKey(key, *keyPathFl, false); err != nil {
		return fmt.Errorf("cannot save private key: %s", err)
	}
	_, err := fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
		bech32Fl = fl.Bool("bech32", false, "Print the address in bech32 format.")
	)
	fl.Parse(args)

	key, err := crypto.LoadPrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	addr := key.PublicKey().Address()
	if !*bech32Fl {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	enc, err := addr.Bech32()
	if err != nil {
		return fmt.Errorf("cannot encode address: %s", err)
	}
	_, err = fmt.Fprintln(output, "bech32:"+enc)
	return err
}
