package ktp

import "strings"

const provinsiDKI = "PROVINSI DKI JAKARTA"

// SplitAddress decomposes the combined province/regency line printed at the
// top of the card.
func SplitAddress(combined string) (provinsi, kabupaten string) {
	switch {
	case strings.Contains(combined, "KOTA"):
		before, after, _ := strings.Cut(combined, "KOTA")
		provinsi, kabupaten = before, "KOTA "+strings.TrimSpace(after)
	case strings.Contains(combined, "KABUPATEN"):
		before, after, _ := strings.Cut(combined, "KABUPATEN")
		provinsi, kabupaten = before, "KABUPATEN "+strings.TrimSpace(after)
	case strings.Contains(combined, "JAKARTA"):
		_, after, _ := strings.Cut(combined, "JAKARTA")
		provinsi, kabupaten = provinsiDKI, strings.TrimSpace(after)
	default:
		provinsi = combined
	}
	return strings.TrimSpace(provinsi), kabupaten
}
