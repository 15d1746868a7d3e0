package engine

import "github.com/spektr-org/homesight/dataset"

// ============================================================================
// VIEWS — Zero-copy windows over a Dataset
// ============================================================================
// The engine never owns the data, it reads through this interface.
//
// Implementations:
//   DatasetView — wraps a loaded *dataset.Dataset
//   SubView     — filtered subset (indices into parent, zero-copy)
//
// Pipeline stages take a View and return a View, so chained filters never
// copy record data. A zero-length View is a valid empty result; the nil
// "nothing filtered yet" state is represented by not having a View at all.
// ============================================================================

// View provides indexed, read-only access to records.
// Record is called in tight loops — keep implementations fast.
type View interface {
	Len() int
	Record(i int) dataset.Record
}

// DatasetView exposes every record of one Dataset.
type DatasetView struct {
	ds *dataset.Dataset
}

// NewView wraps ds in a full-width View. A nil or empty dataset yields a
// valid zero-length view.
func NewView(ds *dataset.Dataset) *DatasetView {
	return &DatasetView{ds: ds}
}

func (v *DatasetView) Len() int {
	if v == nil {
		return 0
	}
	return v.ds.Len()
}

func (v *DatasetView) Record(i int) dataset.Record {
	if i < 0 || i >= v.Len() {
		return dataset.Record{}
	}
	return v.ds.Records[i]
}

// SubView is a filtered subset of a parent View. Holds indices into the
// parent, no data copy.
type SubView struct {
	parent  View
	indices []int
}

func newSubView(parent View, indices []int) View {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Record(i int) dataset.Record {
	if i < 0 || i >= len(v.indices) {
		return dataset.Record{}
	}
	return v.parent.Record(v.indices[i])
}
