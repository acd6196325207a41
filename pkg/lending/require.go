package lending

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// Require returns code unless condition holds
func Require(condition bool, code core.ErrorCode) error {
	if condition {
		return nil
	}

	return code
}

// RequireAmount amount must be a positive integer in the signed 128 bit range
func RequireAmount(amount decimal.Decimal) error {
	if err := Require(amount.IsPositive(), core.ErrInvalidAmount); err != nil {
		return err
	}

	return Require(number.FitsInt128(amount), core.ErrIntegerConversion)
}
