package core

import (
	"errors"
	"strconv"
)

// ErrorKind error category surfaced to callers
type ErrorKind int

const (
	// KindUnknown not a lending error
	KindUnknown ErrorKind = iota
	// KindAuthorization caller mismatch
	KindAuthorization
	// KindNotFound pool, token, lender or position absent
	KindNotFound
	// KindInsufficientFunds balance, pool liquidity or debt violations
	KindInsufficientFunds
	// KindArithmetic division by zero, conversion overflow
	KindArithmetic
	// KindPolicyViolation asset cap, allow-list, health check
	KindPolicyViolation
	// KindStateConflict operation not allowed in the current state
	KindStateConflict
)

var kindNames = map[ErrorKind]string{
	KindUnknown:           "Unknown",
	KindAuthorization:     "Authorization",
	KindNotFound:          "NotFound",
	KindInsufficientFunds: "InsufficientFunds",
	KindArithmetic:        "Arithmetic",
	KindPolicyViolation:   "PolicyViolation",
	KindStateConflict:     "StateConflict",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return strconv.Itoa(int(k))
}

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller is not the required identity
	ErrUnauthorized ErrorCode = 100001

	// ErrPoolNotFound no pool
	ErrPoolNotFound ErrorCode = 100100
	// ErrLenderNotRegistered lender has no position in the pool
	ErrLenderNotRegistered ErrorCode = 100101
	// ErrBorrowNotFound borrower has no shares in the pool
	ErrBorrowNotFound ErrorCode = 100102
	// ErrAccountNotFound no margin account
	ErrAccountNotFound ErrorCode = 100103
	// ErrCollateralTokenNotFound symbol not posted as collateral
	ErrCollateralTokenNotFound ErrorCode = 100104
	// ErrBorrowedTokenNotFound symbol not borrowed
	ErrBorrowedTokenNotFound ErrorCode = 100105
	// ErrPriceUnavailable no price feed
	ErrPriceUnavailable ErrorCode = 100106
	// ErrServiceNotFound registry can not resolve the name
	ErrServiceNotFound ErrorCode = 100107

	// ErrInsufficientBalance balance too low
	ErrInsufficientBalance ErrorCode = 100200
	// ErrInsufficientPoolBalance pool liquidity too low
	ErrInsufficientPoolBalance ErrorCode = 100201
	// ErrInsufficientTokenBalance v-token balance too low
	ErrInsufficientTokenBalance ErrorCode = 100202
	// ErrRepayExceedsDebt repay amount larger than the outstanding debt
	ErrRepayExceedsDebt ErrorCode = 100203

	// ErrDivisionByZero zero divisor
	ErrDivisionByZero ErrorCode = 100300
	// ErrIntegerConversion amount out of the signed 128 bit range
	ErrIntegerConversion ErrorCode = 100301
	// ErrZeroShares amount converts to zero shares
	ErrZeroShares ErrorCode = 100302
	// ErrInvalidVTokenValue v-token unit value is zero
	ErrInvalidVTokenValue ErrorCode = 100303
	// ErrAmountTooSmall amount converts to zero v-tokens
	ErrAmountTooSmall ErrorCode = 100304

	// ErrInvalidAmount amount must be a positive integer
	ErrInvalidAmount ErrorCode = 100400
	// ErrTokenNotAllowed symbol not in the collateral allow-list
	ErrTokenNotAllowed ErrorCode = 100401
	// ErrMaxAssetCapCrossed too many collateral symbols
	ErrMaxAssetCapCrossed ErrorCode = 100402
	// ErrBorrowNotAllowed borrow would leave the account unhealthy
	ErrBorrowNotAllowed ErrorCode = 100403
	// ErrWithdrawNotAllowed withdraw would leave the account unhealthy
	ErrWithdrawNotAllowed ErrorCode = 100404
	// ErrInvalidParameters risk parameters rejected
	ErrInvalidParameters ErrorCode = 100405

	// ErrHasDebt account still has debt
	ErrHasDebt ErrorCode = 100500
	// ErrAccountExists account already created
	ErrAccountExists ErrorCode = 100501
	// ErrAccountInactive account deactivated
	ErrAccountInactive ErrorCode = 100502
	// ErrAccountDeleted account deleted
	ErrAccountDeleted ErrorCode = 100503
	// ErrPoolExists pool already created
	ErrPoolExists ErrorCode = 100504
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:                  "Unknown",
	ErrUnauthorized:             "Unauthorized",
	ErrPoolNotFound:             "PoolNotFound",
	ErrLenderNotRegistered:      "LenderNotRegistered",
	ErrBorrowNotFound:           "BorrowNotFound",
	ErrAccountNotFound:          "MarginAccountNotFound",
	ErrCollateralTokenNotFound:  "CollateralTokenNotFound",
	ErrBorrowedTokenNotFound:    "BorrowedTokenNotFound",
	ErrPriceUnavailable:         "PriceUnavailable",
	ErrServiceNotFound:          "ServiceNotFound",
	ErrInsufficientBalance:      "InsufficientBalance",
	ErrInsufficientPoolBalance:  "InsufficientPoolBalance",
	ErrInsufficientTokenBalance: "InsufficientTokenBalance",
	ErrRepayExceedsDebt:         "RepayExceedsDebt",
	ErrDivisionByZero:           "DivisionByZero",
	ErrIntegerConversion:        "IntegerConversionError",
	ErrZeroShares:               "ZeroShares",
	ErrInvalidVTokenValue:       "InvalidVTokenValue",
	ErrAmountTooSmall:           "AmountTooSmall",
	ErrInvalidAmount:            "InvalidAmount",
	ErrTokenNotAllowed:          "TokenNotAllowed",
	ErrMaxAssetCapCrossed:       "MaxAssetCapCrossed",
	ErrBorrowNotAllowed:         "BorrowNotAllowed",
	ErrWithdrawNotAllowed:       "WithdrawNotAllowed",
	ErrInvalidParameters:        "InvalidParameters",
	ErrHasDebt:                  "HasDebt",
	ErrAccountExists:            "AccountExists",
	ErrAccountInactive:          "AccountInactive",
	ErrAccountDeleted:           "AccountDeleted",
	ErrPoolExists:               "PoolExists",
}

// Kind category of the code, derived from its hundreds block
func (e ErrorCode) Kind() ErrorKind {
	if e == ErrUnauthorized {
		return KindAuthorization
	}

	switch (int(e) / 100) % 1000 {
	case 1:
		return KindNotFound
	case 2:
		return KindInsufficientFunds
	case 3:
		return KindArithmetic
	case 4:
		return KindPolicyViolation
	case 5:
		return KindStateConflict
	}

	return KindUnknown
}

func (e ErrorCode) String() string {
	if name, ok := codeNames[e]; ok {
		return name
	}

	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// KindOf kind of the first ErrorCode in err's chain
func KindOf(err error) ErrorKind {
	var code ErrorCode
	if errors.As(err, &code) {
		return code.Kind()
	}

	return KindUnknown
}
