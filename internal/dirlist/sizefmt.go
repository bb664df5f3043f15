package dirlist

import "strconv"

// sizeUnits are the suffixes advanced through while scaling by 1024.
const sizeUnits = "BKMGTPE"

// FormatSize renders a byte count as a compact string of at most seven
// characters: "0B", "512B", "12.3K", "0.9M". The output matches the
// long-deployed renderer byte for byte, quirks included: scaling divides
// while the value strictly exceeds 1024, the single decimal digit is the
// last division's remainder divided by 100 and capped at 9, the base B unit
// carries no decimal, and a scaled value above 999 saturates to "0.9" of the
// next unit instead of growing a fourth digit.
func FormatSize(size int64) string {
	unit := 0
	remaining := int64(0)
	for size > 1024 {
		remaining = size & 1023
		size >>= 10
		unit++
	}

	remaining /= 100
	if remaining > 9 {
		remaining = 9
	}
	if size > 999 {
		size = 0
		remaining = 9
		unit++
	}

	buf := make([]byte, 0, 7)
	buf = strconv.AppendInt(buf, size, 10)
	if unit > 0 {
		buf = append(buf, '.', byte('0'+remaining))
	}
	buf = append(buf, sizeUnits[unit])
	return string(buf)
}
