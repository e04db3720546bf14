package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultDecimalPlaces = 18

// Precision holds the number of minor-unit decimal places allowed per token.
// Token keys are upper case.
type Precision struct {
	Default int32
	Tokens  map[string]int32
}

func DefaultPrecision() Precision {
	return Precision{Default: DefaultDecimalPlaces}
}

func (p Precision) Places(token string) int32 {
	if places, ok := p.Tokens[strings.ToUpper(token)]; ok {
		return places
	}
	if p.Default <= 0 {
		return DefaultDecimalPlaces
	}
	return p.Default
}

// Check rejects amounts that cannot be represented in the token's minor units.
func (p Precision) Check(token string, amount decimal.Decimal) error {
	places := p.Places(token)
	if !amount.Equal(amount.Truncate(places)) {
		return NewError(KindValidation, "%v amounts allow at most %d decimal places", token, places)
	}
	return nil
}
