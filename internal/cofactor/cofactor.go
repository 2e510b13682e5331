// Package cofactor checks claimed factors of Mersenne numbers. It backs the
// known-factor validation the worktodo parser performs before scheduling a
// Mersenne cofactor PRP test.
package cofactor

import (
	"fmt"
	"math/big"
)

var one = big.NewInt(1)

// ValidateFactors reports whether every decimal factor string divides
// 2^exponent - 1. A factor f > 1 divides 2^p - 1 exactly when 2^p = 1 mod f,
// so each check is a single modular exponentiation regardless of the size of
// the Mersenne number itself.
func ValidateFactors(exponent uint32, factors []string) error {
	exp := new(big.Int).SetUint64(uint64(exponent))
	for _, factor := range factors {
		f, ok := new(big.Int).SetString(factor, 10)
		if !ok {
			return fmt.Errorf("malformed factor %q", factor)
		}
		if f.Cmp(one) <= 0 {
			return fmt.Errorf("trivial factor %q", factor)
		}
		residue := new(big.Int).Exp(big.NewInt(2), exp, f)
		if residue.Cmp(one) != 0 {
			return fmt.Errorf("factor %s does not divide 2^%d-1", factor, exponent)
		}
	}
	return nil
}
