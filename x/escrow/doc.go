/*
Package escrow implements a two party token swap.

The initializer moves the tokens they offer into a custody token account,
then opens the escrow: the program records which account must receive
the counter tokens and how many, and takes ownership of the custody
account through an authority derived from its own address. Nobody holds a
key for that authority.

A taker settles the escrow by paying the expected amount to the
initializer. In the same instruction the program releases the custody
tokens to the taker, closes the custody account and destroys the record,
returning all rent deposits to the initializer.

Every account is passed by position. Each identity the record holds is
compared against the supplied accounts before anything moves; these
comparisons are the whole authorization of a settlement. If any step
fails the runtime discards every effect of the transaction.

There is no way to cancel an open escrow.
*/
package escrow
