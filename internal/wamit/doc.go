// Package wamit reads hydrodynamic coefficient files in the formats written
// by the WAMIT panel code and converts them into hydro tables.
//
// Frequency-domain data comes in two files: the radiation file (".1") with
// rows "PER I J Abar [Bbar]" and the excitation file (".3") with rows
// "PER BETA I Mod Pha Re Im". Values are non-dimensional and are scaled by
// the water density ρ, gravity g and the length scale L on load:
//
//	A_ij = ρ L^k Abar_ij        k = 3, 4, 5 for translation, mixed, rotation
//	B_ij = ρ ω L^k Bbar_ij
//	X_i  = ρ g L^m Xbar_i       m = 2 for forces, 3 for moments
//
// A period of 0 marks the infinite-frequency limit and a negative period the
// zero-frequency limit, which is not used.
//
// Time-domain data gives impulse responses directly, in dimensional form:
// "tau I J K" rows for radiation and "tau I K" rows for excitation.
package wamit
