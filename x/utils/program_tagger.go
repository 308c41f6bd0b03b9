package utils

import (
	"encoding/hex"
	"sort"

	weave "github.com/iov-one/weave-escrow"
	"github.com/tendermint/tendermint/libs/common"
)

// ProgramKey is used by ProgramTagger as the Key in the Tags it appends
const ProgramKey = "program"

// ProgramTagger adds a tag `program = hex(program id)` for every program
// a transaction calls directly, so that clients can search and subscribe
// to the transactions of a program.
type ProgramTagger struct{}

var _ weave.Decorator = ProgramTagger{}

// NewProgramTagger creates a ProgramTagger decorator
func NewProgramTagger() ProgramTagger {
	return ProgramTagger{}
}

// Check just passes the request along
func (ProgramTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends the tags on the result if there is a success.
func (ProgramTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (weave.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	ixs, err := tx.GetInstructions()
	if err != nil {
		return weave.DeliverResult{}, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return res, err
	}

	seen := make(map[string]bool, len(ixs))
	programs := make([]string, 0, len(ixs))
	for _, ix := range ixs {
		id := hex.EncodeToString(ix.ProgramID)
		if !seen[id] {
			seen[id] = true
			programs = append(programs, id)
		}
	}
	sort.Strings(programs)
	for _, id := range programs {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(ProgramKey),
			Value: []byte(id),
		})
	}
	return res, nil
}
