// internal/domain/models/division.go
package models

// Division groups hospitals.
type Division struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}
