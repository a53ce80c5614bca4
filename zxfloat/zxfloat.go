// Package zxfloat encodes numbers in the five byte format the 48K ROM
// calculator uses.
//
// Whole numbers in [-65535, 65535] use the short integer form: a zero
// exponent, a sign byte, and the magnitude as a little endian word. Anything
// else is stored as an exponent biased by 128 and a 32 bit mantissa
// normalized to [0.5, 1) whose leading one bit is replaced by the sign.
//
// Numbers embedded in program text never carry a sign here; the target reads
// a preceding minus token instead, so Encode stores the magnitude only.
package zxfloat

import (
	"errors"
	"fmt"
	"math"
)

var ErrOutOfRange = errors.New("exponent out of range")

const (
	minExponent = -128
	maxExponent = 127
)

func Encode(v float64) (exp byte, man uint32, err error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}

	if v == math.Trunc(v) && v >= -65535 && v <= 65535 {
		n := uint32(math.Abs(v))
		return 0, (n%256)<<16 | (n>>8)<<8, nil
	}

	num := math.Abs(v)
	e := 0
	for num >= 1 {
		num /= 2
		e++
	}
	for num < 0.5 {
		num *= 2
		e--
	}
	if e < minExponent || e > maxExponent {
		return 0, 0, fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}

	// the 0.5 bit becomes the integer part
	num *= 2
	for range 32 {
		bit := uint32(num)
		man = man<<1 | bit
		num -= float64(bit)
		num *= 2
	}
	if uint32(num) != 0 && man != math.MaxUint32 {
		man++
	}
	man &= 0x7FFFFFFF

	return byte(e + 128), man, nil
}

// Bytes returns the exponent followed by the mantissa, most significant
// byte first.
func Bytes(v float64) (ret [5]byte, err error) {
	exp, man, err := Encode(v)
	if err != nil {
		return ret, err
	}
	ret[0] = exp
	ret[1] = byte(man >> 24)
	ret[2] = byte(man >> 16)
	ret[3] = byte(man >> 8)
	ret[4] = byte(man)
	return ret, nil
}

func Decode(exp byte, man uint32) float64 {
	if exp == 0 {
		n := int(man>>16&0xFF) | int(man>>8&0xFF)<<8
		if man>>24 == 0xFF {
			n -= 65536
		}
		return float64(n)
	}
	negative := man&0x80000000 != 0
	v := float64(man|0x80000000) / (1 << 32)
	v = math.Ldexp(v, int(exp)-128)
	if negative {
		v = -v
	}
	return v
}
