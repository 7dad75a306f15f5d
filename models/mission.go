package models

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// Mission holds the structure for the missions collection in mongo.
// Fields outside the required set are free-form and pass through
// unvalidated.
type Mission struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"mission_name" bson:"mission_name" validate:"required"`
	Description string             `json:"mission_description,omitempty" bson:"mission_description,omitempty"`
	Project     string             `json:"project" bson:"project" validate:"required,oneof=wog miniwog"`
	Game        string             `json:"game" bson:"game" validate:"required,oneof=arma2 arma3"`
	Author      string             `json:"author,omitempty" bson:"author,omitempty"`
	DateOf      primitive.DateTime `json:"date_of,omitempty" bson:"date_of,omitempty"`
	Images      *MissionImages     `json:"images,omitempty" bson:"images,omitempty"`
	TaskBlue    string             `json:"task_blue,omitempty" bson:"task_blue,omitempty"`
	TaskRed     string             `json:"task_red,omitempty" bson:"task_red,omitempty"`
	TaskGreen   string             `json:"task_green,omitempty" bson:"task_green,omitempty"`
	Conventions string             `json:"conventions,omitempty" bson:"conventions,omitempty"`
	Screenshots []string           `json:"screenshots,omitempty" bson:"screenshots,omitempty"`
}

// MissionImages holds the structure for the inner images object
type MissionImages struct {
	Thumbnail string `json:"thumbnail" bson:"thumbnail"`
}

// Validate checks the required fields and the project/game enums before
// a mission is handed to the store
func (m *Mission) Validate() error {
	return validate.Struct(m)
}
