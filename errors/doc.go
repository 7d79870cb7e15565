/*
Package errors implements custom error interfaces for lifeline.

The package is built around coded root errors. Each failure class that a
client may want to react to is declared once, with a unique numeric code,
through the Register function. Runtime errors wrap one of the root errors,
adding context on the way up the stack while staying matchable with the root
error's Is method.
*/
package errors
