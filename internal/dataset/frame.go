package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/airlens-labs/airlens/internal/duckdb"
)

// Frame is the cleaned dataset loaded into memory for modeling.
// Columns are parallel slices indexed by row.
type Frame struct {
	Numeric     map[string][]float64
	Categorical map[string][]string
	Target      []float64
}

// Rows returns the number of rows in the frame.
func (f *Frame) Rows() int {
	return len(f.Target)
}

// LoadFrame reads the feature and target columns of the clean table
// into a Frame.
func LoadFrame(ctx context.Context, db *duckdb.DB) (*Frame, error) {
	cols := make([]string, 0, len(FeatureColumns)+len(CategoricalColumns)+1)
	cols = append(cols, FeatureColumns...)
	cols = append(cols, CategoricalColumns...)
	cols = append(cols, TargetColumn)

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), CleanTable)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}
	defer func() { _ = rows.Close() }()

	f := &Frame{
		Numeric:     make(map[string][]float64, len(FeatureColumns)),
		Categorical: make(map[string][]string, len(CategoricalColumns)),
	}

	numVals := make([]float64, len(FeatureColumns))
	catVals := make([]string, len(CategoricalColumns))
	var target float64

	dest := make([]any, 0, len(cols))
	for i := range numVals {
		dest = append(dest, &numVals[i])
	}
	for i := range catVals {
		dest = append(dest, &catVals[i])
	}
	dest = append(dest, &target)

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan frame row: %w", err)
		}
		for i, name := range FeatureColumns {
			f.Numeric[name] = append(f.Numeric[name], numVals[i])
		}
		for i, name := range CategoricalColumns {
			f.Categorical[name] = append(f.Categorical[name], catVals[i])
		}
		f.Target = append(f.Target, target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating frame rows: %w", err)
	}

	if f.Rows() == 0 {
		return nil, fmt.Errorf("clean table %s is empty", CleanTable)
	}

	return f, nil
}
