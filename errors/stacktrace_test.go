package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackTrace(t *testing.T) {
	cases := map[string]struct {
		err       error
		wantError string
	}{
		"New gives us a stacktrace": {
			err:       ErrDuplicate.New("name"),
			wantError: "name: duplicate",
		},
		"Wrapping stderr gives us a stacktrace": {
			err:       Wrap(fmt.Errorf("foo"), "standard"),
			wantError: "standard: foo",
		},
		"Wrapping a registered error twice keeps the message chain": {
			err:       Wrap(ErrInvalidAccountData.New("custody"), "settle"),
			wantError: "settle: custody: invalid account data",
		},
		"Wrapf is trimmed as well": {
			err:       Wrapf(errors.New("indirect"), "do the %s", "do"),
			wantError: "do the do: indirect",
		},
	}

	// Wrapping code is unwanted in the errors stack trace.
	unwantedSrc := []string{
		"github.com/iov-one/weave-escrow/errors.Wrap\n",
		"github.com/iov-one/weave-escrow/errors.Wrapf\n",
		"github.com/iov-one/weave-escrow/errors.(*Error).New\n",
		"runtime.goexit\n",
	}
	const thisTestFn = "github.com/iov-one/weave-escrow/errors.TestStackTrace"

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantError, tc.err.Error())
			assert.NotNil(t, stackTrace(tc.err))

			fullStack := fmt.Sprintf("%+v", tc.err)
			if !strings.HasPrefix(fullStack, "\n"+thisTestFn+"\n") {
				t.Logf("Stack trace below\n----%s\n----", fullStack)
				t.Error("full stack trace should start at this test")
			}
			if !strings.Contains(fullStack, tc.wantError) {
				t.Logf("Stack trace below\n----%s\n----", fullStack)
				t.Error("full stack trace should contain the error description")
			}
			for _, src := range unwantedSrc {
				if strings.Contains(fullStack, src) {
					t.Logf("Stack trace below\n----%s\n----", fullStack)
					t.Errorf("full stack trace should not contain %q", src)
				}
			}

			tinyStack := fmt.Sprintf("%v", tc.err)
			assert.True(t, strings.HasPrefix(tinyStack, tc.wantError))
			assert.False(t, strings.Contains(tinyStack, "\n"), "only one line is expected")
			assert.True(t, strings.Contains(tinyStack, " [errors/stacktrace_test.go:"), tinyStack)
		})
	}
}
