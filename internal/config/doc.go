// Package config provides WARDEN's validated configuration sets.
//
// Each ConfigSet is a group of related, typed settings with declared
// defaults, environment-style overrides, and cross-field invariants that
// run after all fields are assigned. Optional integrations (such as LDAP)
// declare their companion fields as a soft requirement group: when the
// feature is enabled but incomplete, the group downgrades to disabled with
// a recoverable warning instead of failing the whole load. Mandatory sets
// (storage paths) validate with hard severity and fail construction.
//
// Overrides come from two sources, in increasing precedence: an optional
// sandboxed Lua config file (warden.lua, with the host platform injected
// as a read-only table) and environment variables. Keys not recognized by
// one set are ignored by it; another set may consume them.
//
// Derived properties are pure methods over the validated fields. They are
// recomputed on access and never stored.
package config
