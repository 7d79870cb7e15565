/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain an authenticated context
that following handlers can query.
*/
package sigs
