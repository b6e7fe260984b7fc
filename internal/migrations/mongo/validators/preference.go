package validators

import "go.mongodb.org/mongo-driver/bson"

var PreferenceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"preferred_cities": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"city", "weight"},
					"properties": bson.M{
						"city": bson.M{
							"bsonType":  "string",
							"maxLength": 50,
						},
						"weight": bson.M{
							"bsonType": []string{"int", "long", "double"},
							"minimum":  0,
						},
					},
				},
			},

			"price_range": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"min": bson.M{
						"bsonType": []string{"int", "long", "double"},
						"minimum":  0,
					},
					"max": bson.M{
						"bsonType": []string{"int", "long", "double"},
						"minimum":  0,
					},
				},
			},

			"rating_preference": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
				"maximum":  5,
			},

			"travel_style": bson.M{
				"enum": []string{"business", "leisure", "family", "romantic", "adventure", "budget", "luxury"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
