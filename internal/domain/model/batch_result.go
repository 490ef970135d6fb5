package model

const previewLength = 50

// ErrorEntry records why one batch item could not be scored.
type ErrorEntry struct {
	Error              string
	DescriptionPreview string
}

// NewErrorEntry builds an entry whose preview is the first 50 characters of
// the description followed by "...".
func NewErrorEntry(err error, description string) ErrorEntry {
	return ErrorEntry{
		Error:              err.Error(),
		DescriptionPreview: DescriptionPreview(description),
	}
}

// DescriptionPreview truncates a description to 50 runes and appends "...".
func DescriptionPreview(description string) string {
	runes := []rune(description)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes) + "..."
}

// BatchItem is the outcome for one batch entry: exactly one of Result or
// Failure is set.
type BatchItem struct {
	result  *AnalysisResult
	failure *ErrorEntry
}

// SucceededItem wraps a scored result.
func SucceededItem(result AnalysisResult) BatchItem {
	return BatchItem{result: &result}
}

// FailedItem wraps an error entry.
func FailedItem(entry ErrorEntry) BatchItem {
	return BatchItem{failure: &entry}
}

// Result returns the scored result, if the item succeeded.
func (i BatchItem) Result() (AnalysisResult, bool) {
	if i.result == nil {
		return AnalysisResult{}, false
	}
	return *i.result, true
}

// Failure returns the error entry, if the item failed.
func (i BatchItem) Failure() (ErrorEntry, bool) {
	if i.failure == nil {
		return ErrorEntry{}, false
	}
	return *i.failure, true
}

// Failed reports whether the item carries an error entry.
func (i BatchItem) Failed() bool {
	return i.failure != nil
}

// BatchResult preserves input order; Total always equals len(Items).
type BatchResult struct {
	items []BatchItem
}

// NewBatchResult copies the items into a result.
func NewBatchResult(items []BatchItem) BatchResult {
	out := make([]BatchItem, len(items))
	copy(out, items)
	return BatchResult{items: out}
}

// Items returns a copy of the per-item outcomes in input order.
func (b BatchResult) Items() []BatchItem {
	out := make([]BatchItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b BatchResult) Total() int { return len(b.items) }

// FailedCount returns the number of items that carry an error entry.
func (b BatchResult) FailedCount() int {
	n := 0
	for _, item := range b.items {
		if item.Failed() {
			n++
		}
	}
	return n
}
