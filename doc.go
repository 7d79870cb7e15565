/*
Package lifeline defines the common interfaces that tie the repository
together: addresses and the conditions they are derived from, message and
transaction abstractions, handler and decorator contracts, and the key-value
store interfaces every extension persists through.

The actual business logic lives in the extensions under x/. The proof-of-life
deposit state machine is x/deposit, the fungible value primitive it delegates
transfers to is x/token.
*/
package lifeline
