// Package ngram splits Unicode text into overlapping character N-grams.
//
// The splitter works on UTF-32 input (a rune slice) so that CJK text indexes
// per character rather than per byte. Characters are either indexable or
// ignored; ignored characters never appear inside a gram and reset the
// window, so grams do not straddle punctuation or whitespace.
package ngram

import "iter"

// IsIgnored reports whether r is excluded from indexing.
//
// The ignored set is ASCII punctuation and whitespace plus the common CJK
// punctuation characters. Everything else is indexable.
func IsIgnored(r rune) bool {
	switch r {
	case ' ', '\f', '\n', '\r', '\t', '\v',
		'!', '"', '#', '$', '%', '&',
		'\'', '(', ')', '*', '+', ',',
		'-', '.', '/',
		':', ';', '<', '=', '>', '?', '@',
		'[', '\\', ']', '^', '_', '`',
		'{', '|', '}', '~',
		'　', // ideographic space
		'、', // 、
		'。', // 。
		'（', // （
		'）', // ）
		'！', // ！
		'，', // ，
		'：', // ：
		'；', // ；
		'？': // ？
		return true
	default:
		return false
	}
}

// Split yields the overlapping N-grams of text as (position, gram) pairs.
//
// Each gram is the longest run of up to n indexable runes starting at the
// current offset; the window then advances by one rune. Grams shorter than n
// occur at the end of the input and just before ignored characters. The
// position counter increments once per yielded gram, not per rune, so
// positions are contiguous across indexable runs.
//
// The yielded gram slice aliases text and is only valid within the yield.
func Split(text []rune, n int) iter.Seq2[uint32, []rune] {
	return func(yield func(uint32, []rune) bool) {
		var position uint32
		t := text
		for {
			// Skip characters that are not indexable.
			for len(t) > 0 && IsIgnored(t[0]) {
				t = t[1:]
			}
			if len(t) == 0 {
				return
			}

			length := 0
			for length < n && length < len(t) && !IsIgnored(t[length]) {
				length++
			}

			if !yield(position, t[:length]) {
				return
			}
			position++
			t = t[1:]
		}
	}
}
