// Package conv formats integers without fmt or strconv, which keeps them out
// of MCU images.
package conv

// AppendUint appends the base-10 form of n to dst, zero-padded on the left
// to at least width digits.
func AppendUint(dst []byte, n uint64, width int) []byte {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	for pad := width - (len(buf) - i); pad > 0; pad-- {
		dst = append(dst, '0')
	}
	return append(dst, buf[i:]...)
}

// Utoa returns the base-10 form of n.
func Utoa(n uint64) string { return string(AppendUint(nil, n, 0)) }
