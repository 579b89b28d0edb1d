// Package drometa provides an in-memory indexing and incremental aggregation
// engine for the metadata of dimensionality reduction (DR) runs.
//
// Each record describes one DR run: an id, the hyperparameter values it was
// computed with, and the objective scores it achieved. A Dataset indexes
// those records along many dimensions at once and keeps per-bin aggregates
// current while filters change, in the manner of crossfilter.
//
// # Quick Start
//
//	schema, _ := metadata.SchemaFromJSON(schemaJSON)
//	records, _ := metadata.RecordsFromJSON(recordsJSON)
//
//	ds, err := drometa.New("tsne", records, schema, 10)
//	if err != nil {
//	    return err
//	}
//
//	// Histogram of stress, observing every filter but its own.
//	g, _ := ds.Group(dimension.Histogram("stress"))
//	for _, e := range g.All() {
//	    fmt.Println(e.Key.First, e.Value.Count)
//	}
//
// # Dimensions
//
// Dimensions are addressed by typed keys:
//
//	dimension.Hyperparameter("perplexity") // raw value
//	dimension.Objective("stress")          // raw value
//	dimension.Encoded("metric")            // integer code, legacy "metric*"
//	dimension.Histogram("stress")          // binned value, legacy "stress#histogram"
//	dimension.Pair("perplexity", "stress") // both values, legacy "perplexity:stress"
//
// Pair keys are unordered: Pair("a", "b") and Pair("b", "a") address the
// same dimension and group. Legacy names resolve through DimensionByName.
//
// # Filtering
//
//	ds.Filter(dimension.Objective("stress"), metadata.Range(metadata.Float(0), metadata.Float(0.3)))
//	ds.ClearFilter(dimension.Objective("stress"))
//
// A group observes every filter except the one on its own dimension. Records
// leaving a group's visible set are removed from their bin, records entering
// it are added. Bin extrema only ever widen: removing a record never narrows
// them.
//
// # Structures
//
// WithStructures selects what is built. Histogram and pair dimensions carry
// groups; singular dimensions are filter-only. Derived fields ("attr*",
// "attr#histogram") live in a separate table, so the input records are never
// modified.
//
// # Persistence
//
// Dataset.State captures records, options, filters and group aggregates.
// Restore rebuilds an equivalent dataset. The persistence package writes
// states as checksummed, optionally compressed snapshots to a blobstore.
//
// # Concurrency
//
// A Dataset is not safe for concurrent use. The catalog package builds many
// datasets in parallel, one goroutine per dataset.
package drometa
