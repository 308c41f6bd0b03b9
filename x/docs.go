/*
Package x contains helpers shared by the extensions of this application.

Sub-packages hold the programs executed by the runtime (system, rent,
token, escrow), signature verification (sigs) and the decorators wrapped
around the runtime (utils).
*/
package x
