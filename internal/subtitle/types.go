// Package subtitle decodes and encodes SubRip (.srt) subtitle files.
package subtitle

// Record is a single timed caption entry. All fields are kept as the
// verbatim strings from the source file: Index is not renumbered (it may
// contain leading zeros or gaps) and Start/End stay in their textual
// HH:MM:SS,mmm form so that timing survives a translation pass unchanged.
type Record struct {
	Index string
	Start string
	End   string
	Text  string
}

// List is an ordered sequence of records with utility methods.
type List []Record

// Texts returns all record texts as a slice, in order.
func (l List) Texts() []string {
	texts := make([]string, len(l))
	for i, rec := range l {
		texts[i] = rec.Text
	}
	return texts
}

// WithTexts returns a new list with replaced texts while preserving index
// and timing. The original list is returned unchanged if the lengths differ.
func (l List) WithTexts(texts []string) List {
	if len(texts) != len(l) {
		return l
	}
	result := make(List, len(l))
	for i, rec := range l {
		result[i] = Record{
			Index: rec.Index,
			Start: rec.Start,
			End:   rec.End,
			Text:  texts[i],
		}
	}
	return result
}

// Clone returns a copy of the list.
func (l List) Clone() List {
	result := make(List, len(l))
	copy(result, l)
	return result
}
