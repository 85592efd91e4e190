// Package aggregates implements the application aggregate on top of the
// tracker table repos. It owns the transaction, lock and retry boundaries for
// every write that touches an application together with its owner's
// reference set.
package aggregates
