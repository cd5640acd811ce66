package sift

// ColumnIndex maps configured column names onto header positions. Built once
// per run from the header row and immutable afterwards.
type ColumnIndex struct {
	fieldIdxs  []int
	filterIdxs map[int][]string
}

// BuildIndex walks the header row in order and records which positions to
// retain and which carry an allow-list filter. Configured names absent from
// the header are silently ignored. Output column order follows the header
// row, not the order of the fields list.
func BuildIndex(headers []string, fields []string, includeColsWith map[string][]string) *ColumnIndex {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		fieldSet[f] = struct{}{}
	}

	ix := &ColumnIndex{
		filterIdxs: make(map[int][]string, len(includeColsWith)),
	}
	for pos, name := range headers {
		if _, ok := fieldSet[name]; ok {
			ix.fieldIdxs = append(ix.fieldIdxs, pos)
		}
		if allowed, ok := includeColsWith[name]; ok {
			ix.filterIdxs[pos] = append([]string(nil), allowed...)
		}
	}
	return ix
}

// RetainedHeaders returns the header subset at the retained positions, in
// header order.
func (ix *ColumnIndex) RetainedHeaders(headers []string) []string {
	retained := make([]string, 0, len(ix.fieldIdxs))
	for _, pos := range ix.fieldIdxs {
		retained = append(retained, headers[pos])
	}
	return retained
}

// RowPasses reports whether every filtered column's value is literally
// present in its allow-list. Missing cells count as empty strings, and the
// comparison is exact: case-sensitive, no trimming. An empty filter map
// passes every row.
func (ix *ColumnIndex) RowPasses(row []string) bool {
	for pos, allowed := range ix.filterIdxs {
		val := ""
		if pos < len(row) {
			val = row[pos]
		}
		if !contains(allowed, val) {
			return false
		}
	}
	return true
}

// RetainColumns builds the retained subset of row in header order. It is
// total: out-of-range positions yield empty strings.
func (ix *ColumnIndex) RetainColumns(row []string) []string {
	subset := make([]string, 0, len(ix.fieldIdxs))
	for _, pos := range ix.fieldIdxs {
		val := ""
		if pos < len(row) {
			val = row[pos]
		}
		subset = append(subset, val)
	}
	return subset
}

// FilterCount returns the number of columns carrying an allow-list.
func (ix *ColumnIndex) FilterCount() int {
	return len(ix.filterIdxs)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
