package forecast

import "github.com/shopspring/decimal"

// SuggestReorderQuantity ceil(promedio * leadTimeDays + safetyStock). Nunca negativo.
func SuggestReorderQuantity(averageDaily decimal.Decimal, leadTimeDays int, safetyStock decimal.Decimal) int64 {
	qty := averageDaily.Mul(decimal.NewFromInt(int64(leadTimeDays))).Add(safetyStock).Ceil()
	if qty.IsNegative() {
		return 0
	}
	return qty.IntPart()
}
