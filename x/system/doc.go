/*
Package system implements the program owning every fresh account.

It funds new accounts and hands them over to the program that will own
them, and moves lamports between accounts it still owns.
*/
package system
