// SPDX-License-Identifier: GPL-2.0-or-later

package math

type Number interface {
	~int64 | ~float64 | ~float32 | ~int
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// NonNegative returns val or 0 if val is negative.
func NonNegative[K Number](val K) K {
	if val < 0 {
		return 0
	}
	return val
}
