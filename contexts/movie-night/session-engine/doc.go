// Package sessionengine implements the movie-night voting core inside the
// movie-night context.
//
// The module owns session lifecycle (token issuance and registration),
// proposal admission, vote casting with cap and duplicate enforcement, and
// derived ranking/turnout statistics. Business rules live in the
// application/domain layers; persistence and transport stay behind ports and
// adapters. Every mutating operation runs inside the session repository's
// serialized update boundary, so caps and the vote-count/voter-set invariant
// hold under concurrent requests.
package sessionengine
