package repository

import (
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UpdateOptions holds the fields for a MongoDB update operation. It is used
// with the Functional Options pattern.
type UpdateOptions struct {
	SetFields bson.M
}

// NewUpdateOptions creates a new instance of UpdateOptions.
func NewUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		SetFields: bson.M{},
	}
}

// UpdateOption defines a function that can modify the UpdateOptions.
type UpdateOption func(*UpdateOptions)

// WithStatus is an option to update the bill's status field.
func WithStatus(status string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldStatus] = status
	}
}

// WithPaymentStatus is an option to update the bill's payment_status field.
func WithPaymentStatus(status string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillPaymentStatus] = status
	}
}

// WithNote is an option to update the bill's note field.
func WithNote(note string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillNote] = note
	}
}

// WithUpdatedBy is an option to update the bill's updated_by field.
func WithUpdatedBy(user *models.User) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldUpdatedBy] = user
	}
}
