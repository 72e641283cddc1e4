package validators

import (
	"regexp"
	"strings"
)

// Old format ABC1234 and Mercosul ABC1D23.
var platePattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

func NormalizePlate(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	p = strings.ReplaceAll(p, "-", "")
	return strings.ReplaceAll(p, " ", "")
}

func IsValidPlate(p string) bool {
	return platePattern.MatchString(NormalizePlate(p))
}
