// Package metadata holds the record model of a DR run dataset.
//
// A dataset is a flat, ordered list of records. Each record carries a unique
// id plus one typed Value per schema attribute:
//
//	rec := metadata.Record{
//	    ID: 7,
//	    Fields: metadata.Document{
//	        "perplexity": metadata.Float(30),
//	        "metric":     metadata.String("cosine"),
//	        "stress":     metadata.Float(0.12),
//	    },
//	}
//
// The Schema declares which fields are hyperparameters (numeric or
// categorical, with an explicit domain) and which are objectives. Its JSON
// form is the metadata document shipped with every dataset:
//
//	{
//	  "hyperparameters": [
//	    {"name": "perplexity", "type": "numeric", "values": [5, 30, 50]},
//	    {"name": "metric", "type": "categorical", "values": ["cosine", "euclidean"]}
//	  ],
//	  "objectives": ["stress", "runtime"]
//	}
//
// Store indexes records by id and hands out borrowed pointers; records are
// never modified once a Store owns them.
package metadata
