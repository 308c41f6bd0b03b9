package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/token"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *weave.Address {
	var a weave.Address
	if defaultVal != "" {
		var err error
		a, err = parseAddressOrProgram(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q weave.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagAddress)(&a), name, usage)
	return &a
}

type flagAddress weave.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return weave.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := parseAddressOrProgram(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// programs maps the name of every program of the chain to its address.
var programs = map[string]weave.Address{
	"system": runtime.SystemProgramID,
	"token":  token.ProgramID,
	"escrow": escrow.ProgramID,
}

// parseAddressOrProgram accepts a program name or any address format
// supported by weave.ParseAddress.
func parseAddressOrProgram(raw string) (weave.Address, error) {
	if addr, ok := programs[raw]; ok {
		return addr.Clone(), nil
	}
	return weave.ParseAddress(raw)
}

// programName returns the name of the program registered under addr or an
// empty string.
func programName(addr weave.Address) string {
	for name, id := range programs {
		if id.Equals(addr) {
			return name
		}
	}
	return ""
}

// requireAddresses returns an error naming the flags that were not set.
func requireAddresses(flags map[string]weave.Address) error {
	var missing []string
	for name, a := range flags {
		if len(a) == 0 {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("required flags not set: %s", strings.Join(missing, ", "))
}
