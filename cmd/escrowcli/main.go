package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	weave "github.com/iov-one/weave-escrow"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function reads from input and writes to output only. Given args
// are the command line arguments, without the program name and the command
// name, that should be parsed using the flag package.
//
// Each command provides a single functionality. Transactions are streamed
// between commands, so that a unix pipe can be used to build, combine, sign
// and submit them:
//
//   $ (escrowcli create-account -funder $ALICE -account $RECORD \
//         -lamports 1000000 -space 69 -owner escrow ; \
//      escrowcli open-escrow -initializer $ALICE -custody $TEMP \
//         -receive $ALICE_Y -escrow $RECORD -amount 50) \
//       | escrowcli merge \
//       | escrowcli sign -key alice.key \
//       | escrowcli sign -key record.key \
//       | escrowcli submit
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"account":            cmdQueryAccount,
	"create-account":     cmdCreateAccount,
	"custody-address":    cmdCustodyAddress,
	"init-token-account": cmdInitTokenAccount,
	"keyaddr":            cmdKeyaddr,
	"keygen":             cmdKeygen,
	"merge":              cmdMerge,
	"open-escrow":        cmdOpenEscrow,
	"rent-exempt":        cmdRentExempt,
	"send-tokens":        cmdSendTokens,
	"settle-escrow":      cmdSettleEscrow,
	"sign":               cmdSignTransaction,
	"submit":             cmdSubmitTransaction,
	"transfer":           cmdTransfer,
	"version":            cmdVersion,
	"view":               cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the escrow chain.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, weave.Version())
	return err
}
