// Package auth provides the credential-checking core of authbridge.
//
// This package defines the types shared by every authentication backend:
//
//   - Backend: a single upstream identity system (flow executor, directory)
//   - UserInfo: the backend-neutral outcome of a successful check
//   - Role / Resolve: the two-tier role policy applied after a check
//   - Bridge: runs exactly one Backend and applies the role policy
//
// Sub-packages:
//   - flow/: challenge-response backend driving a remote flow executor
//   - directory/: LDAP search + bind backend with the result code registry
//
// Backends are selected once, at configuration time (see config.CreateBackend).
// A Bridge never falls back from one backend to another.
package auth
