// Package registry provides a generic named registry used for the
// constructor lookups in confseed: descriptor factories keyed by
// configuration type tag and secrets provider factories keyed by
// provider name. Registries are populated from init() functions at
// startup, so lookups never depend on import order at call time.
package registry
