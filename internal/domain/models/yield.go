package models

// CropEntry is one user supplied (crop, acreage) pair.
type CropEntry struct {
	CropName string  `json:"crop_name" bson:"crop_name"`
	Acres    float64 `json:"acres" bson:"acres"`
}

// ReferenceYieldRecord is a static yield and price tuple used as the basis
// for estimation.
type ReferenceYieldRecord struct {
	Crop         string  `json:"crop" bson:"crop"`
	YieldPerAcre float64 `json:"yieldPerAcre" bson:"yield_per_acre"` // kg/acre
	PricePerKg   float64 `json:"pricePerKg" bson:"price_per_kg"`
}

// CropProjection holds the computed figures for a single entry.
type CropProjection struct {
	Crop          string  `json:"crop" bson:"crop"`
	Acres         float64 `json:"acres" bson:"acres"`
	YieldPerAcre  float64 `json:"yield_per_acre" bson:"yield_per_acre"`
	ExpectedYield float64 `json:"expected_yield" bson:"expected_yield"`
	PricePerKg    float64 `json:"price_per_kg" bson:"price_per_kg"`
	TotalIncome   float64 `json:"total_income" bson:"total_income"`
}

// EstimationResult aggregates the per-crop projections in input order.
type EstimationResult struct {
	Projections []CropProjection `json:"projections" bson:"projections"`
	TotalIncome float64          `json:"total_income" bson:"total_income"`
}
