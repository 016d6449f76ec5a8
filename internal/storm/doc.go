// Package storm generates synthetic design storms (hyetographs) from a
// total rainfall depth, a storm duration, and a named temporal pattern.
//
// # Temporal Pattern Sources
//
// Three kinds of pattern source exist, tried in this order by the builder:
//
//   - Official NRCS/SCS dimensionless cumulative curves (Types I, IA, II,
//     III). These tabulated distributions give the best accuracy and are
//     always preferred when the requested distribution names one.
//   - A user-supplied two-column cumulative curve file, selected with the
//     "user" distribution name.
//   - Beta(α,β) presets approximating the Huff quartile shapes (and legacy
//     SCS approximations kept for backward compatibility; they are shadowed
//     by the official tables above).
//
// # Output Conventions
//
// All depths are inches and all intensities inches per hour. A built Series
// has n = max(1, ceil(duration·60/timestep)) bins of fixed width equal to
// the timestep; the ceiling means a short final bin is absorbed rather than
// the series falling short of the requested duration. Bin increments always
// sum to the requested depth exactly (up to floating-point rounding): after
// any resampling the increments are rescaled by depth/sum, so interpolation
// error never leaks into the mass balance.
//
// # Failure Model
//
// Bad caller input (non-positive duration or timestep, malformed curves,
// unknown distribution names) fails fast with an error wrapping
// ErrValidation. Numerical degeneracy in otherwise valid input (all-equal
// curves, Beta densities that underflow to zero) is absorbed by falling
// back to a uniform split of the depth, so a single flat dataset never
// aborts a build.
//
// # Series Identity
//
// Series IDs are deterministic SHA-256 hashes of the build inputs, so
// rebuilding the same storm produces the same ID. This enables idempotent
// upserts downstream and replay safety without coordination.
package storm
