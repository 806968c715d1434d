package utils

import "github.com/shopspring/decimal"

// RoundMoney rounds a monetary or percentage value half away from zero to 2 decimal places
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// AddMoney adds two amounts without binary floating point drift
func AddMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}
