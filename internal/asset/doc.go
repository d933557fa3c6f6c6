// Package asset resolves texture handles to drawable surfaces.
//
// A [Handle] names a texture (normally a path relative to an asset root).
// A [Resolver] turns it into a [Texture] or fails; callers are expected to
// fall back to [FallbackColor] rather than abort when resolution fails.
//
//   - [FileResolver]: reads images from disk, sniffing content before decoding
//   - [MapResolver]: serves preloaded textures, mostly for tests and presets
package asset
