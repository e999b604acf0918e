package rules

// Barcode symbology checks. EAN-13 and UPC-A both protect the code with a
// weighted-sum check digit; the weight pattern is the only difference between
// the two.

// internalPrefixes are the GS1 restricted-circulation prefixes retailers use
// for in-store codes (scale labels, store-packed goods). These carry no
// standard check digit, so prefix plus all-digits is the whole check.
var internalPrefixes = []string{"20", "21", "22", "23", "24", "25", "26", "27", "28", "29"}

// ValidEAN13 reports whether s is a 13-digit code with a correct EAN-13 check
// digit: check = (10 - sum(d[i]*w[i], i<12) mod 10) mod 10, w alternating 1,3.
func ValidEAN13(s string) bool {
	if len(s) != 13 || !allDigits(s) {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(s[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return check == int(s[12]-'0')
}

// ValidUPCA reports whether s is a 12-digit code with a correct UPC-A check
// digit. Same formula as EAN-13 with the weights swapped: 3 on even positions,
// 1 on odd.
func ValidUPCA(s string) bool {
	if len(s) != 12 || !allDigits(s) {
		return false
	}
	sum := 0
	for i := 0; i < 11; i++ {
		d := int(s[i] - '0')
		if i%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	check := (10 - sum%10) % 10
	return check == int(s[11]-'0')
}

// validInternal reports whether s is a numeric in-store code on a recognized
// internal prefix.
func validInternal(s string) bool {
	if len(s) < 4 || len(s) > 13 || !allDigits(s) {
		return false
	}
	for _, p := range internalPrefixes {
		if s[:2] == p {
			return true
		}
	}
	return false
}

// ValidBarcode accepts any of the supported symbologies.
func ValidBarcode(s string) bool {
	return ValidEAN13(s) || ValidUPCA(s) || validInternal(s)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
