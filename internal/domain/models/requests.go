package models

// EstimateEntryRequest is the wire form of a crop entry. Acres is left untyped
// so that strings, numbers and nulls can all reach the parse-or-default rule.
type EstimateEntryRequest struct {
	CropName string `json:"crop_name"`
	Acres    any    `json:"acres"`
}

// EstimateRequest is the body accepted by POST /yield/estimate.
type EstimateRequest struct {
	Title     string                 `json:"title"`
	MatchMode string                 `json:"match_mode"`
	Entries   []EstimateEntryRequest `json:"entries"`
}

// EstimateResponse is returned by POST /yield/estimate.
type EstimateResponse struct {
	ReportID    string           `json:"report_id"`
	Header      []string         `json:"header"`
	Rows        [][]string       `json:"rows"`
	Projections []CropProjection `json:"projections"`
	TotalIncome float64          `json:"total_income"`
	Document    string           `json:"document"`
}

// RecommendationRequest is the body accepted by POST /advisory/recommendations.
type RecommendationRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	LocationData
}
