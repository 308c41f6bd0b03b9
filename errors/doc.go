/*
Package errors implements the error taxonomy shared by the runtime and every
program.

Root errors are registered once with an ABCI code using Register. Programs that
need a failure kind of their own (the escrow program's NotRentExempt, the token
program's MintMismatch) register it in their own package with a code above 100.
Use Errxxx.New and Errxxx.Newf, or Wrap and Wrapf, at the point of failure so
that a stacktrace is attached once at the lowest frame.

Test for an error kind with Errxxx.Is(err). Wrapping never hides the kind.

Once you have an error, you can use fmt.Printf/Sprintf to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
