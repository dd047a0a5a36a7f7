// Package fxproto defines the message protocol exchanged between the control
// thread and the audio thread of the effects engine.
//
// Requests and responses are plain values copied through a lock-free pipe
// (see package fxpipe). Racks, chains and effects are addressed by opaque
// identities issued at creation time; only attach requests carry the
// collaborator object being attached, and the audio thread never dereferences
// an identity that is absent from the manager's membership lists.
//
// The package also defines the collaborator contract the effects manager
// relies on (Rack, Chain, Effect), the per-block GroupFeatureState and the
// channel handles used to key per-channel processing state.
package fxproto
