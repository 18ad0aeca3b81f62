package model

import "time"

type ParticipantStatus string

const (
	ParticipantActive   ParticipantStatus = "ACTIVE"
	ParticipantInactive ParticipantStatus = "INACTIVE"
)

func (s ParticipantStatus) IsValid() bool {
	return s == ParticipantActive || s == ParticipantInactive
}

type Participant struct {
	ID        string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName string            `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string            `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email     string            `json:"email" bson:"email" validate:"required,email,max=254"`
	Phone     string            `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Status    ParticipantStatus `json:"status,omitempty" bson:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	CreatedAt time.Time         `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type ParticipantUpdate struct {
	FirstName string            `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  string            `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     string            `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     *string           `json:"phone,omitempty" validate:"omitempty,e164"`
	Status    ParticipantStatus `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
