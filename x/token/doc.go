/*
Package token implements a fungible token ledger as a program.

A mint account records the supply of one token and the authority allowed
to issue it. Token accounts hold a balance of a single mint on behalf of
an owner. Both live in accounts owned by this program, in fixed binary
layouts, so that other programs can read them.

Every instruction that moves or reassigns tokens requires the recorded
authority to sign. Programs sign for their derived authorities through
InvokeSigned.
*/
package token
