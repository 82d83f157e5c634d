// internal/domain/models/hospital.go
package models

// Hospital belongs to exactly one division. Board entries reference it by ID.
type Hospital struct {
	ID         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	DivisionID string `bson:"division_id" json:"division_id"`
}
