/*
Package weave defines the interfaces shared by the escrow runtime and its
programs: storage, transactions, accounts, instructions and handlers.

A transaction carries a list of instructions. Each instruction names the
program that processes it and the accounts it touches, by position. The
runtime loads the referenced accounts, runs the program and verifies the
outcome. Programs call each other through an Invoker, optionally proving
a program derived authority with a Condition.
*/
package weave
