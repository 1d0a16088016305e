package usage

import (
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	"github.com/shopspring/decimal"
)

var perThousand = decimal.NewFromInt(1000)

// ModelPricing holds the injected unit prices for metered generation, in
// USD per 1K units. Prices live in configuration so they can change without
// redeploying accounting logic.
type ModelPricing struct {
	InputPricePer1K  decimal.Decimal
	OutputPricePer1K decimal.Decimal
	ImageFlatCost    decimal.Decimal
}

// PricingFromConfig converts the float-typed config section into exact
// decimals once, at wiring time.
func PricingFromConfig(cfg models.PricingConfig) ModelPricing {
	return ModelPricing{
		InputPricePer1K:  decimal.NewFromFloat(cfg.InputPricePer1K),
		OutputPricePer1K: decimal.NewFromFloat(cfg.OutputPricePer1K),
		ImageFlatCost:    decimal.NewFromFloat(cfg.ImageFlatCost),
	}
}

// TokenCost prices a metered generation:
// (unitsIn/1000)*pricePerKIn + (unitsOut/1000)*pricePerKOut, computed with
// exact decimal arithmetic so accounting never drifts with float rounding.
func TokenCost(unitsIn, unitsOut int64, pricing ModelPricing) decimal.Decimal {
	in := decimal.NewFromInt(unitsIn).Div(perThousand).Mul(pricing.InputPricePer1K)
	out := decimal.NewFromInt(unitsOut).Div(perThousand).Mul(pricing.OutputPricePer1K)
	return in.Add(out)
}

// FlatImageCost prices a non-metered image generation: a fixed configured
// constant rather than a function of usage units.
func FlatImageCost(pricing ModelPricing) decimal.Decimal {
	return pricing.ImageFlatCost
}
