/*
Package token defines a ledger of fungible asset accounts and a
controller to move balances between them.

Every account lives under its own account address, which need not be
derived from the owner key. This lets other extensions hold balances
under addresses they control (eg. vault addresses), while the owner
field decides who may authorize a transfer out of the account.
*/
package token
