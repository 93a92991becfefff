package mathutil

import "math"

// PlusFee returns amount + fee and false if the sum overflows uint64.
func PlusFee(amount, fee uint64) (uint64, bool) {
	if fee > math.MaxUint64-amount {
		return 0, false
	}
	return amount + fee, true
}
