package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SystemUser represents an operator for actions performed by the system itself
// (gateway callbacks, background sweepers).
var SystemUser = &User{
	UserId: primitive.NilObjectID,
	Name:   "System",
	Email:  "system@ute-shop.vn",
}

type User struct {
	UserId primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name   string             `json:"name" bson:"name"`
	Email  string             `json:"email" bson:"email"`
}
