// Package path implements the dot-path DSL shared by noise stripping, change
// extraction, and the regex-based risk classifiers. A path addresses one
// location in a tree of maps and slices: "a.b.c" for mapping keys, "a.b[3].c"
// for sequence indices, and "a.b\.c" to escape a literal dot inside a single
// mapping-key segment.
package path

import "strings"

// Segment is one step of a path: either a mapping key (Index == -1) or a
// sequence index (Key == "").
type Segment struct {
	Key   string
	Index int
}

// IsIndex reports whether the segment addresses a sequence element.
func (s Segment) IsIndex() bool { return s.Index >= 0 }

// Parse splits a dot-path string into its segments, honoring `\.` as an
// escaped literal dot inside a single segment and `[i]` as a sequence index.
func Parse(p string) []Segment {
	if p == "" {
		return nil
	}

	var segments []Segment

	var cur strings.Builder

	flush := func() {
		if cur.Len() == 0 {
			return
		}

		key := cur.String()
		cur.Reset()

		// A trailing [i] on the accumulated key is a sequence index
		// appended directly to the previous segment's text, e.g. "foo[2]".
		for {
			open := strings.LastIndexByte(key, '[')
			if open == -1 || !strings.HasSuffix(key, "]") {
				break
			}

			idxStr := key[open+1 : len(key)-1]

			idx := 0

			neg := false

			ok := idxStr != ""
			for i, r := range idxStr {
				if i == 0 && r == '-' {
					neg = true
					continue
				}

				if r < '0' || r > '9' {
					ok = false
					break
				}

				idx = idx*10 + int(r-'0')
			}

			if !ok {
				break
			}

			if neg {
				idx = -idx
			}

			if open > 0 {
				segments = append(segments, Segment{Key: key[:open], Index: -1})
			}

			key = ""
			segments = append(segments, Segment{Index: idx})

			break
		}

		if key != "" {
			segments = append(segments, Segment{Key: key, Index: -1})
		}
	}

	escaped := false

	for _, r := range p {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			flush()
		default:
			cur.WriteRune(r)
		}
	}

	flush()

	return segments
}

// Format renders segments back into dot-path string form.
func Format(segments []Segment) string {
	var b strings.Builder

	for i, s := range segments {
		if s.IsIndex() {
			b.WriteByte('[')
			b.WriteString(itoa(s.Index))
			b.WriteByte(']')

			continue
		}

		if i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(escapeDots(s.Key))
	}

	return b.String()
}

// Join appends a key or index segment to a parent dot-path, producing a
// child path string. Used by tree walks building up paths incrementally.
func Join(parent string, seg Segment) string {
	if seg.IsIndex() {
		return parent + "[" + itoa(seg.Index) + "]"
	}

	if parent == "" {
		return escapeDots(seg.Key)
	}

	return parent + "." + escapeDots(seg.Key)
}

func escapeDots(key string) string {
	if !strings.ContainsAny(key, ".") {
		return key
	}

	return strings.ReplaceAll(key, ".", `\.`)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var b [20]byte

	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		b[i] = '-'
	}

	return string(b[i:])
}

// Get walks a tree of map[string]any / []any and returns the value at path,
// plus whether it was found.
func Get(root any, p string) (any, bool) {
	cur := root

	for _, seg := range Parse(p) {
		if seg.IsIndex() {
			seq, ok := cur.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(seq) {
				return nil, false
			}

			cur = seq[seg.Index]

			continue
		}

		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		v, found := m[seg.Key]
		if !found {
			return nil, false
		}

		cur = v
	}

	return cur, true
}

// Delete removes the value addressed by path from a tree, returning true if
// something was removed. No-op if any intermediate segment is missing.
func Delete(root any, p string) bool {
	segments := Parse(p)
	if len(segments) == 0 {
		return false
	}

	parent, ok := Get(root, Format(segments[:len(segments)-1]))
	if !ok {
		return false
	}

	last := segments[len(segments)-1]

	switch c := parent.(type) {
	case map[string]any:
		if last.IsIndex() {
			return false
		}

		if _, found := c[last.Key]; !found {
			return false
		}

		delete(c, last.Key)

		return true
	case []any:
		// Sequence element deletion isn't addressed by noise stripping
		// (we never strip individual list items by index), so this is
		// unsupported; report no-op rather than silently corrupting order.
		return false
	}

	return false
}
