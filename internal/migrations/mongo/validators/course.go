package validators

import "go.mongodb.org/mongo-driver/bson"

var CourseValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"start_date",
			"end_date",
			"max_seats",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"max_seats": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"status": bson.M{
				"enum": []string{"PLANNED", "ACTIVE", "COMPLETED", "CANCELLED"},
			},

			"trainer_id": bson.M{
				"bsonType":  "string",
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
