// Package secret resolves the signing secret and other sensitive values
// from references instead of inline configuration.
//
// Values of the form "secretref:<provider>:<ref>" are resolved through
// registered providers; other values go through strict environment
// expansion. KeySource adapts a resolved reference into the token codec's
// key provider so the signing secret never sits in a config struct.
package secret
