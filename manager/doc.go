// Package manager is the host-facing entry point for multitenant token and
// wallet management.
//
// A Manager composes a wallet strategy with the token codec to service
// tenant registration, token issuance, tenant removal and token
// authorization. Operations on the same tenant are serialized; operations
// on different tenants run in parallel. The host supplies the wallet
// storage backend, the signing secret and optionally a clock and telemetry.
package manager
