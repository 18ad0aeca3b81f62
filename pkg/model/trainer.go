package model

import "time"

type Trainer struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName     string    `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName      string    `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email         string    `json:"email" bson:"email" validate:"required,email,max=254"`
	Qualification string    `json:"qualification,omitempty" bson:"qualification,omitempty" validate:"max=200"`
	CreatedAt     time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type TrainerUpdate struct {
	FirstName     string  `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName      string  `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email         string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Qualification *string `json:"qualification,omitempty" validate:"omitempty,max=200"`
}
