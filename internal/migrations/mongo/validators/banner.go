package validators

import "go.mongodb.org/mongo-driver/bson"

// BannerValidator accepts image_urls as a string or an array: documents created by
// the content tools predate the normalized array form written by banner-ingest.
var BannerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"image_urls",
			"priority",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"string", "objectId"},
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"subtitle": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"image_urls": bson.M{
				"bsonType": []string{"string", "array"},
			},

			"link_url": bson.M{
				"bsonType":  "string",
				"maxLength": 2048,
			},

			"priority": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1000,
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
