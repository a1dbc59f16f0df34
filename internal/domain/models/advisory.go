package models

// LocationData is the payload the remote recommendation service expects.
// Coordinates travel as strings on the wire.
type LocationData struct {
	Lat     string `json:"lat" binding:"required"`
	Long    string `json:"long" binding:"required"`
	Address string `json:"address"`
}

// CropRecommendation is a single crop suggested by the advisory service.
type CropRecommendation struct {
	Crop   string `json:"crop"`
	Type   string `json:"type"`
	Score  string `json:"score"`
	Reason string `json:"reason"`
}
