// Package analysis extracts spectral content from simulated time series,
// such as the dominant response frequency of a heave record.
//
//	sp := analysis.NewSpectrum(heave, dt)
//	w := sp.Dominant()  // rad/s
package analysis
