package validators

import "strings"

// OnlyDigits strips everything that is not 0-9.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidDocument accepts a CPF (11 digits) or CNPJ (14 digits), with or
// without punctuation, and checks the verifier digits.
func IsValidDocument(doc string) bool {
	d := OnlyDigits(doc)
	switch len(d) {
	case 11:
		return isValidCPF(d)
	case 14:
		return isValidCNPJ(d)
	default:
		return false
	}
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

func isValidCPF(d string) bool {
	if allSame(d) {
		return false
	}

	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		if check != int(d[n]-'0') {
			return false
		}
	}
	return true
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func isValidCNPJ(d string) bool {
	if allSame(d) {
		return false
	}

	for pos, weights := range map[int][]int{12: cnpjWeights1, 13: cnpjWeights2} {
		sum := 0
		for i, w := range weights {
			sum += int(d[i]-'0') * w
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != int(d[pos]-'0') {
			return false
		}
	}
	return true
}
