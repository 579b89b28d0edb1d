package metadata

import "strings"

// displayNames maps well-known DR attributes to their axis titles. The second
// entry is the HTML rendering used by chart labels.
var displayNames = map[string][2]string{
	"n_components":            {"Dimensions", "Dimensions"},
	"perplexity":              {"Perplexity", "Perplexity"},
	"early_exaggeration":      {"Early exagg.", "Early exagg."},
	"learning_rate":           {"Learning rate", "Learning rate"},
	"n_iter":                  {"Iterations", "Iterations"},
	"angle":                   {"Angle", "Angle"},
	"metric":                  {"Dist. metric", "Dist. metric"},
	"n_neighbors":             {"Neighbors", "Neighbors"},
	"min_dist":                {"Min. Distance", "Min. Distance"},
	"local_connectivity":      {"Local Conn.", "Local Conn."},
	"n_epochs":                {"Iterations", "Iterations"},
	"r_nx":                    {"R_nx", "R<sub>nx</sub>"},
	"b_nx":                    {"B_nx", "B<sub>nx</sub>"},
	"stress":                  {"Stress", "Stress"},
	"classification_accuracy": {"Accuracy", "Accuracy"},
	"separability_metric":     {"Silhouette", "Silhouette"},
	"runtime":                 {"Runtime", "Runtime"},
}

// DisplayName returns the axis title of an attribute. Derived field suffixes
// ("*", "#histogram") are ignored. Unknown names are returned with
// underscores replaced by spaces and the first letter upper-cased.
func DisplayName(attr string, html bool) string {
	base := strings.TrimSuffix(strings.TrimSuffix(attr, "#histogram"), "*")
	if names, ok := displayNames[base]; ok {
		if html {
			return names[1]
		}
		return names[0]
	}
	if base == "" {
		return base
	}
	s := strings.ReplaceAll(base, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
