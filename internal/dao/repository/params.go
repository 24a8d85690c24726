package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Parameter Structs ---

// ListBillsParams drives the paginated bill listing. Status may be a stored
// status or the derived UNPAID view; Search matches billCode or receiver name.
type ListBillsParams struct {
	UserID primitive.ObjectID
	Status string
	Search string
	Limit  int
	Offset int
}
