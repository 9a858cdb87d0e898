// Package translation translates paper titles and abstracts into the
// configured summary language. It supports several interchangeable
// backends (Gemini, Baidu, Doubao) tried in priority order behind circuit
// breakers. Translation is best effort: it never fails, it degrades to
// returning the input text.
package translation
