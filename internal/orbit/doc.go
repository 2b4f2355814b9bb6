// Package orbit models transiting-planet orbits in units of the stellar
// radius.
//
// [Keplerian] holds one or more planets parameterized the way transit
// photometry constrains them: period, transit epoch, transit duration,
// impact parameter, and radius ratio. [TTV] wraps a Keplerian orbit built
// from observed transit times: it fits the best linear ephemeris by least
// squares, exposes the timing residuals, and warps the time axis during
// evaluation so every modeled transit lands on its observed epoch.
package orbit
