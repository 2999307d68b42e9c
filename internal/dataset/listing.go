// Package dataset defines the listings schema, the cleaning stage and the
// in-memory frame handed to the modeling code.
package dataset

// Table names inside the analysis database.
const (
	RawTable   = "listings_raw"
	CleanTable = "listings"
)

// NumericColumns are the numeric columns summarized by the describe stage
// and used as model features alongside the encoded categoricals.
var NumericColumns = []string{
	"latitude",
	"longitude",
	"price",
	"minimum_nights",
	"number_of_reviews",
	"reviews_per_month",
	"calculated_host_listings_count",
	"availability_365",
}

// FeatureColumns are the numeric model inputs. Price is excluded: its
// logarithm is the target.
var FeatureColumns = []string{
	"latitude",
	"longitude",
	"minimum_nights",
	"number_of_reviews",
	"reviews_per_month",
	"calculated_host_listings_count",
	"availability_365",
}

// CategoricalColumns are one-hot encoded before modeling.
var CategoricalColumns = []string{
	"neighbourhood_group",
	"room_type",
}

// TargetColumn is the regression target.
const TargetColumn = "log_price"
