package entities

import (
	"github.com/shopspring/decimal"
)

type Account struct {
	Username string
	Balance  decimal.Decimal
}
