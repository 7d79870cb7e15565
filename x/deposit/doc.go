/*
Package deposit implements a custodial escrow with a proof-of-life
condition.

An owner locks an amount of a fungible asset under a derived vault,
naming a receiver who may claim the value only if the owner fails to
renew liveness within the configured timeout. The owner can always
withdraw voluntarily before such a claim lands.

Records live at an address derived from (owner, seed), so there is at
most one escrow per pair and no registry is needed. The vault account
is owned by the record address itself, which has no key: only this
state machine, acting as the record, can move the vault balance.

Settlement (Withdraw or Claim) persists the closed flag before issuing
the vault transfer, so two racing settlements can never both believe
they are first.
*/
package deposit
