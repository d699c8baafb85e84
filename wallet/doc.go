// Package wallet defines the storage contract for tenant wallets and the
// strategies that decide which storage unit backs a tenant.
//
// The Store interface is implemented by the host's storage engine; the
// in-memory implementation here is for tests and embedders without a
// backend. Strategies are selected by name from a closed registry: one
// dedicated unit per tenant (multi_wallet) or one shared unit for the whole
// process (single_wallet).
package wallet
