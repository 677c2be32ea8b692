package usecase

// NetProfit is the realized result of buying quantity at buyPrice and selling
// it at sellPrice, after deducting the maker fee on the purchase notional and
// the taker fee on the sale notional.
func NetProfit(buyPrice, sellPrice, quantity, makerFee, takerFee float64) float64 {
	bought := buyPrice * quantity
	sold := sellPrice * quantity
	fees := bought*makerFee + sold*takerFee
	return sold - bought - fees
}

// IsProfitable reports whether closing the lot at sellPrice nets a positive
// result after fees.
func IsProfitable(buyPrice, sellPrice, quantity, makerFee, takerFee float64) bool {
	return NetProfit(buyPrice, sellPrice, quantity, makerFee, takerFee) > 0
}
