// Package tide estimates the water level of a single day from its published
// extrema. A day lists up to two low and two high waters; between them the
// height is interpolated linearly from the low-water reference (LowWater) to
// the day's maximum. All hours are local decimal hours in [0,24).
//
// CoarseState is a separate, data-independent classifier used for matching a
// beach's preferred tide. It does not consult the extrema.
package tide
