package sift

import "github.com/rotisserie/eris"

// ErrUniqueFieldMissing means a configured unique field is not among the
// retained headers. The CLI treats this as fatal; it is a configuration
// contract violation, not a recoverable runtime condition.
var ErrUniqueFieldMissing = eris.New("sift: unique field not found in retained headers")

// Deduplicate prunes t.Data in place, keeping the first row seen for each
// distinct value of each unique field, in the order the fields are listed.
//
// One seen-set is shared across all unique fields rather than reset per
// field, so later fields deduplicate against values already collected by
// earlier ones. The compound, order-dependent result is long-standing
// behavior that downstream configs rely on. Relative row order among
// survivors is preserved.
func Deduplicate(t *Table, uniqueFields []string) error {
	if len(uniqueFields) == 0 {
		return nil
	}

	seen := make(map[string]struct{})

	for _, field := range uniqueFields {
		idx := -1
		for i, h := range t.RetainedHeaders {
			if h == field {
				idx = i
				break
			}
		}
		if idx < 0 {
			return eris.Wrapf(ErrUniqueFieldMissing, "field %q", field)
		}

		kept := t.Data[:0]
		for _, row := range t.Data {
			val := row[idx]
			if _, dup := seen[val]; dup {
				continue
			}
			seen[val] = struct{}{}
			kept = append(kept, row)
		}
		t.Data = kept
	}

	return nil
}
