package subtitle

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
)

// ErrNoRecords is returned by Decode when the input contains no
// recognizable subtitle blocks.
var ErrNoRecords = errors.New("no subtitle records found")

// utf8BOM is the byte-order mark some editors prepend to SRT files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// blockRegex matches one SRT block:
//
//	1
//	00:00:01,000 --> 00:00:02,500
//	Text, possibly
//	on several lines
//
// followed by a blank line or end of input. Blocks that do not match
// (non-numeric index, malformed timestamps, missing arrow) are skipped.
var blockRegex = regexp.MustCompile(
	`(?s)(\d+)\n(\d{2}:\d{2}:\d{2},\d{3}) --> (\d{2}:\d{2}:\d{2},\d{3})\n(.+?)(?:\n\n|\z)`)

// Decode parses raw SRT bytes into an ordered list of records.
// A leading UTF-8 BOM is stripped and CRLF line endings are normalized.
// Text lines within a block are joined with single spaces. Decode returns
// ErrNoRecords when no block matches; callers treat that as "nothing to
// translate" rather than a hard failure.
func Decode(data []byte) (List, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	var records List
	for _, m := range blockRegex.FindAllStringSubmatch(content, -1) {
		records = append(records, Record{
			Index: m[1],
			Start: m[2],
			End:   m[3],
			Text:  strings.TrimSpace(strings.ReplaceAll(m[4], "\n", " ")),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Encode serializes records back to SRT bytes. Each block is
// index, timing line, single text line; blocks are separated by a blank
// line. Encoding a list produced by Decode round-trips stably because
// Decode already collapses multi-line text.
func Encode(records List) []byte {
	var builder strings.Builder
	for i, rec := range records {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(rec.Index)
		builder.WriteString("\n")
		builder.WriteString(rec.Start)
		builder.WriteString(" --> ")
		builder.WriteString(rec.End)
		builder.WriteString("\n")
		builder.WriteString(rec.Text)
		builder.WriteString("\n")
	}
	return []byte(builder.String())
}
