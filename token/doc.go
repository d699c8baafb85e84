// Package token encodes and decodes the signed tenant tokens issued by the
// manager.
//
// A token is a signed JWT carrying the tenant identifier, a reference to the
// storage unit backing the tenant, and issuance metadata. Encoding and
// decoding are pure given a fixed signing secret; the package holds no state
// about tenants or storage.
package token
