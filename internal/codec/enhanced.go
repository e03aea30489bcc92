package codec

import "strconv"

const enhancedKey = "causality_quantum_key_2024"

// enhancedSchedule is the folded form of enhancedKey, "1je2ak".
var enhancedSchedule = foldKey(enhancedKey)

// foldKey hashes key with the 31-multiplier rolling hash on int32
// (h = h<<5 - h + c, wrapping) and renders |h| in base 36.
func foldKey(key string) string {
	var h int32
	for i := 0; i < len(key); i++ {
		h = h<<5 - h + int32(key[i])
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return strconv.FormatInt(n, 36)
}

// offset cycles 1, 2, 3 over byte positions.
func offset(i int) byte {
	return byte(i%3 + 1)
}

// shiftSeal applies XOR with the schedule, then adds the offset. Inputs are
// base64 characters, so the result always fits in a byte.
func shiftSeal(src []byte) []byte {
	out := make([]byte, len(src))
	for i, c := range src {
		out[i] = (c ^ enhancedSchedule[i%len(enhancedSchedule)]) + offset(i)
	}
	return out
}

// shiftOpen undoes shiftSeal in reverse order: subtract, then XOR.
func shiftOpen(src []byte) []byte {
	out := make([]byte, len(src))
	for i, c := range src {
		out[i] = (c - offset(i)) ^ enhancedSchedule[i%len(enhancedSchedule)]
	}
	return out
}
