package services

import "catalog-pricer/models"

// PriceTolerance is the band, in currency units, inside which a product counts as
// priced at market. Both edges belong to the band.
const PriceTolerance = 1.0

// Classify compares our price with the reference price. It returns the signed
// difference (nil when either side is missing) and the verdict.
func Classify(ourPrice, marketPrice *float64) (*float64, models.Recommendation) {
	if ourPrice == nil || marketPrice == nil {
		return nil, models.NoData
	}

	diff := *ourPrice - *marketPrice
	switch {
	case diff > PriceTolerance:
		return &diff, models.Overpriced
	case diff < -PriceTolerance:
		return &diff, models.Underpriced
	default:
		return &diff, models.AtMarket
	}
}
