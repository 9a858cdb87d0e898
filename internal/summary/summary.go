// Package summary cleans LaTeX artifacts out of paper titles and abstracts
// and assembles the spoken summary text.
package summary

import (
	"regexp"
	"strings"
)

var (
	inlineMathRe = regexp.MustCompile(`\$.*?\$`)
	commandRe    = regexp.MustCompile(`\\[a-zA-Z]+\{.*?\}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Separator joins the translated title and abstract in the spoken summary.
const Separator = "："

// Clean strips inline math markup and LaTeX commands from text and
// collapses whitespace runs to single spaces.
func Clean(text string) string {
	text = inlineMathRe.ReplaceAllString(text, "")
	text = commandRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Build concatenates the translated title and abstract into the spoken
// summary, tidying up artifacts the concatenation can introduce.
func Build(translatedTitle, translatedAbstract string) string {
	s := translatedTitle + Separator + translatedAbstract
	s = strings.ReplaceAll(s, "  ", " ")
	s = strings.ReplaceAll(s, "。。。", "...")
	s = strings.ReplaceAll(s, "，，", "，")
	return s
}
