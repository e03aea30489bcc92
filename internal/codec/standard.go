package codec

const standardKey = "balance_secret_key_2024"

// xorSeal XORs each byte with the repeating standard key. XOR is its own
// inverse, so xorOpen is the same operation.
func xorSeal(src []byte) []byte {
	out := make([]byte, len(src))
	for i, c := range src {
		out[i] = c ^ standardKey[i%len(standardKey)]
	}
	return out
}

func xorOpen(src []byte) []byte {
	return xorSeal(src)
}
