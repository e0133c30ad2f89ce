package dataset

import (
	"fmt"

	"carprice/internal/errors"
)

// DetectFeatureTypes partitions every non-target column into numeric and
// categorical sets. A column is numeric when all of its non-missing cells
// parse as float64; otherwise it is categorical. A fully-missing column is
// treated as numeric. The two sets are disjoint and together cover every
// column except the target.
func DetectFeatureTypes(t *Table, target string) (numeric, categorical []string, err error) {
	targetIdx := t.ColumnIndex(target)
	if targetIdx < 0 {
		return nil, nil, errors.SchemaInvalid(
			fmt.Sprintf("target column %q not in dataset columns %v", target, t.Columns))
	}

	for j, name := range t.Columns {
		if j == targetIdx {
			continue
		}
		if columnIsNumeric(t, j) {
			numeric = append(numeric, name)
		} else {
			categorical = append(categorical, name)
		}
	}
	return numeric, categorical, nil
}

func columnIsNumeric(t *Table, col int) bool {
	for _, row := range t.Rows {
		if IsMissing(row[col]) {
			continue
		}
		if _, err := ParseNumeric(row[col]); err != nil {
			return false
		}
	}
	return true
}
