// Package dimension indexes records by one attribute or by a pair of fields.
//
// Every dimension is identified by a typed Key:
//
//	dimension.Hyperparameter("perplexity")  // "perplexity"
//	dimension.Encoded("metric")             // "metric*"
//	dimension.Histogram("stress")           // "stress#histogram"
//	dimension.Pair("stress", "perplexity")  // "perplexity:stress"
//
// Pair keys are canonical: the two fields are kept in ascending order, so
// both orientations name the same dimension. ParseKey accepts the legacy
// string forms shown in the comments above.
//
// A Dimension is built once from one BinKey per record and never changes.
// Filters evaluate to roaring bitmaps of row indexes.
package dimension
