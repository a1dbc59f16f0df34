package models

import "time"

// YieldReport is an estimation run persisted to MongoDB and exported to Sheets.
type YieldReport struct {
	ID        string           `bson:"_id" json:"id"`
	Title     string           `bson:"title" json:"title"`
	MatchMode string           `bson:"match_mode" json:"match_mode"`
	Entries   []CropEntry      `bson:"entries" json:"entries"`
	Result    EstimationResult `bson:"result" json:"result"`
	Document  string           `bson:"document" json:"document"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
}
