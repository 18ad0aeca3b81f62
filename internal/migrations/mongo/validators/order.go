package validators

import "go.mongodb.org/mongo-driver/bson"

var OrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"order_number",
			"total_amount",
			"status",
			"shipping_address",
			"user_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"order_number": bson.M{
				"bsonType":  "string",
				"minLength": 12,
				"maxLength": 12,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"enum": []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"},
			},

			"shipping_address": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 500,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
