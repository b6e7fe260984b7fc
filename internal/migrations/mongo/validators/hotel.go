package validators

import "go.mongodb.org/mongo-driver/bson"

var HotelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"type",
			"city",
			"address",
			"title",
			"description",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"type": bson.M{
				"enum": []string{"hotel", "apartment", "resort", "villa", "cabin"},
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 140,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 2000,
			},

			"stars": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
				"maximum":  5,
			},

			"rating": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
				"maximum":  5,
			},

			"review_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"popularity_score": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
			},

			"cheapest_price": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
			},

			"featured": bson.M{
				"bsonType": "bool",
			},

			"rooms": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
