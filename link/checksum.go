package link

// CRC-8, polynomial x^8+x^2+x+1 (0x07), init 0, no reflection.
// Any generator with more than one term detects every single-bit error.
const crcPoly = 0x07

var crcTable = makeCRCTable()

func makeCRCTable() (t [256]uint8) {
	for i := 0; i < 256; i++ {
		c := uint8(i)
		for b := 0; b < 8; b++ {
			if c&0x80 != 0 {
				c = c<<1 ^ crcPoly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}

// Checksum returns the CRC-8 of data.
func Checksum(data []byte) uint8 {
	var crc uint8
	for _, b := range data {
		crc = crcTable[crc^b]
	}
	return crc
}
