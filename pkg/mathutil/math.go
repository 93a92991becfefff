package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// MaxUint128 is the largest amount an asset balance can hold.
	MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	// MaxUint128Decimal is MaxUint128 as decimal.Decimal.
	MaxUint128Decimal = decimal.NewFromBigInt(MaxUint128, 0)
)

//FromBigInt returns x as an integer decimal.Decimal, nil is zero
func FromBigInt(x *big.Int) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(x, 0)
}

//ToBigInt truncates x and returns it as *big.Int
func ToBigInt(x decimal.Decimal) *big.Int {
	return x.Truncate(0).BigInt()
}

// IsUint128 returns whether x is an integer in [0, 2^128).
func IsUint128(x decimal.Decimal) bool {
	if !x.Equal(x.Truncate(0)) {
		return false
	}
	return !x.IsNegative() && x.LessThanOrEqual(MaxUint128Decimal)
}

// MulDivFloor returns floor(x * y / z) computing the full product before
// dividing. It panics if z is zero, like integer division does.
func MulDivFloor(x, y, z decimal.Decimal) decimal.Decimal {
	num := new(big.Int).Mul(ToBigInt(x), ToBigInt(y))
	q := new(big.Int).Div(num, ToBigInt(z))
	return decimal.NewFromBigInt(q, 0)
}

//SubFloorZero returns x - y, or zero if y is greater than x
func SubFloorZero(x, y decimal.Decimal) decimal.Decimal {
	if y.GreaterThan(x) {
		return decimal.Zero
	}
	return x.Sub(y)
}

