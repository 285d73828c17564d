package cart

import (
	"strconv"
	"strings"
)

// MaxQuantity caps the quantity of a single line.
const MaxQuantity = 1<<31 - 1

// ParseQuantity turns free-text quantity input into a valid quantity.
//
// Leading digits are used and anything after them is ignored, so "3.7" is 3
// and "12abc" is 12. Results below 1 clamp to 1 and results above MaxQuantity
// clamp to MaxQuantity. When the input has no leading digits the result is 1
// and ok is false.
func ParseQuantity(raw string) (qty int, ok bool) {
	s := strings.TrimSpace(raw)

	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1, false
	}
	if negative {
		return 1, true
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n > MaxQuantity {
		// Only a range error is possible here.
		return MaxQuantity, true
	}
	return clampQuantity(int(n)), true
}

// addQuantity returns qty+delta clamped to [1, MaxQuantity].
func addQuantity(qty, delta int) int {
	switch {
	case delta >= MaxQuantity:
		return MaxQuantity
	case delta <= -MaxQuantity:
		return 1
	}
	sum := int64(qty) + int64(delta)
	if sum > MaxQuantity {
		return MaxQuantity
	}
	if sum < 1 {
		return 1
	}
	return int(sum)
}

func clampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}
