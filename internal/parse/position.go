package parse

import "bytes"

// lineColumn converts a byte offset into one-based line and column numbers.
func lineColumn(src []byte, offset int) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	column := offset - bytes.LastIndexByte(before, '\n')
	return line, column
}

// skipInsignificant advances offset past JSON whitespace and separators.
func skipInsignificant(src []byte, offset int) int {
	for offset < len(src) {
		switch src[offset] {
		case ' ', '\t', '\r', '\n', ',', ':':
			offset++
		default:
			return offset
		}
	}
	return offset
}
