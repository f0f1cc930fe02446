package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket statuses for manually fulfilled orders.
const (
	TStatusCreated  = "created"
	TStatusAccepted = "accepted"
	TStatusDone     = "done"
	TStatusRejected = "rejected"
	TStatusRefund   = "refund"
)

// TicketedPrefix marks a service_id as a ticketed (manually handled) order,
// as opposed to an automated provider order.
const TicketedPrefix = "t_"

// Order is a purchase of a service. ServiceID is the external service code,
// not a document reference; ServiceLink optionally points at the Service
// document itself.
type Order struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ServiceID   string             `json:"service_id" bson:"service_id" validate:"required"`
	TStatus     string             `json:"t_status,omitempty" bson:"t_status,omitempty" validate:"omitempty,oneof=created accepted done rejected refund"`
	UserID      int64              `json:"user_id,omitempty" bson:"user_id,omitempty"`
	ServiceLink primitive.ObjectID `json:"service_link,omitempty" bson:"service_link,omitempty"`
	Link        string             `json:"link,omitempty" bson:"link,omitempty"`
	Quantity    int64              `json:"quantity,omitempty" bson:"quantity,omitempty"`
	CreatedAt   time.Time          `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// IsTicketedDoc reports whether an order document belongs to the ticketed
// queue. Documents without a string service_id are never ticketed.
func IsTicketedDoc(doc bson.M) bool {
	sid, _ := doc["service_id"].(string)
	return strings.HasPrefix(sid, TicketedPrefix)
}
