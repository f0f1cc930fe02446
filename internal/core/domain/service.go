package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is a sellable service offering. The API field is the external
// provider code; orders reference it through their service_id rather than
// through a document link.
type Service struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title" validate:"required"`
	API        string             `json:"api" bson:"api"`
	Key        string             `json:"key,omitempty" bson:"key,omitempty"`
	Link       string             `json:"link,omitempty" bson:"link,omitempty"`
	Price      float64            `json:"price,omitempty" bson:"price,omitempty"`
	CategoryID primitive.ObjectID `json:"category_id,omitempty" bson:"category_id,omitempty"`
	TypeID     primitive.ObjectID `json:"type_id,omitempty" bson:"type_id,omitempty"`
}

// Category groups services in the admin UI.
type Category struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title string             `json:"title" bson:"title" validate:"required"`
	Key   string             `json:"key,omitempty" bson:"key,omitempty"`
}

// Type classifies services orthogonally to categories.
type Type struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title string             `json:"title" bson:"title" validate:"required"`
	Key   string             `json:"key,omitempty" bson:"key,omitempty"`
}
