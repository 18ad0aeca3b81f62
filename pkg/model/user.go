package model

import "time"

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Username  string    `json:"username" bson:"username" validate:"required,min=3,max=50"`
	Email     string    `json:"email" bson:"email" validate:"required,max=254"`
	Password  string    `json:"password,omitempty" bson:"password" validate:"required,min=6,max=100"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type UserUpdate struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,max=254"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6,max=100"`
}
