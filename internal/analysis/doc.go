// Package analysis looks for structure in recorded metric traces.
//
//   - [PowerSpectrum]: one-sided power spectrum of a trace
//   - [DominantPeriod]: period, in samples, of the strongest oscillation
//
// Traces are detrended by their mean first, so the zero-frequency bin only
// reflects numerical noise.
package analysis
