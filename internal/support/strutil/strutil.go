// Package strutil provides the string helpers leaf packages across the
// compiler share, grounded on the teacher's lang/utils string helpers.
package strutil

import "sync"

var countPool = sync.Pool{
	New: func() interface{} {
		ret := make([]int, 0, 256)
		return &ret
	},
}

// PutCount returns a line-offset slice obtained from CountLinesPooled.
func PutCount(count *[]int) {
	*count = (*count)[:0]
	countPool.Put(count)
}

// CountLinesPooled returns the byte offset of the start of each line in
// text, using a pooled slice the caller must return via PutCount.
func CountLinesPooled(text string) *[]int {
	tmp := countPool.Get().(*[]int)
	*tmp = append(*tmp, 0)
	for i, c := range text {
		if c == '\n' {
			*tmp = append(*tmp, i+1)
		}
	}
	return tmp
}

// CountLines returns the byte offset of the start of each line in text.
func CountLines(text string) []int {
	ret := make([]int, 0, 16)
	ret = append(ret, 0)
	for i, c := range text {
		if c == '\n' {
			ret = append(ret, i+1)
		}
	}
	return ret
}

// DedupSlice removes duplicate elements in place, preserving first-seen
// order, and returns the truncated slice.
func DedupSlice[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	j := 0
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		s[j] = v
		j++
	}
	return s[:j]
}

// IsIdentStart reports whether r may start an identifier in a
// C-family-derived language (scribble, TypeScript).
func IsIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdentCont reports whether r may continue an identifier.
func IsIdentCont(r rune) bool {
	return IsIdentStart(r) || (r >= '0' && r <= '9')
}

// IsDigit reports whether r is a decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
