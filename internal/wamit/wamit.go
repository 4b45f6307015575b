package wamit

import "github.com/san-kum/buoydyn/internal/hydro"

// ReadFrequencyDomain reads a radiation file and, when excPath is not
// empty, an excitation file.
func ReadFrequencyDomain(radPath, excPath string, s Scale) (*hydro.FrequencyTable, *hydro.ExcitationTable, error) {
	rad, err := ReadRadiation(radPath, s)
	if err != nil {
		return nil, nil, err
	}
	if excPath == "" {
		return rad, nil, nil
	}
	exc, err := ReadExcitation(excPath, s)
	if err != nil {
		return nil, nil, err
	}
	return rad, exc, nil
}

// Load reads frequency-domain files into h.
func Load(h *hydro.Hydrodynamics, radPath, excPath string) error {
	s := Scale{Length: h.LengthScale(), Gravity: h.Gravity(), Density: h.Density()}
	rad, exc, err := ReadFrequencyDomain(radPath, excPath, s)
	if err != nil {
		return err
	}
	return h.LoadFrequencyDomain(rad, exc)
}
