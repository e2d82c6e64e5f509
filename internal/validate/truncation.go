// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// minSentenceLength is the text length below which the unterminated-sentence
// heuristic stays silent; very short answers legitimately omit punctuation.
const minSentenceLength = 100

// terminalRunes are the characters a complete text may legitimately end on.
var terminalRunes = map[rune]bool{
	'.': true, '!': true, '?': true, ':': true, ';': true,
	'"': true, '\'': true, ')': true, ']': true, '`': true, '|': true, '*': true,
	'。': true, '！': true, '？': true,
}

// danglingWords are conjunctions and prepositions an answer must not end on.
var danglingWords = map[string]bool{
	"and": true, "or": true, "but": true, "the": true, "a": true, "an": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "by": true,
	"for": true, "with": true, "from": true, "as": true, "that": true,
	"which": true, "because": true, "if": true, "when": true, "while": true,
	"including": true, "such": true, "is": true, "are": true, "was": true,
	"were": true, "will": true, "shall": true, "must": true, "may": true,
	"should": true, "would": true,
}

// listMarkerPattern matches a list marker with no item text after it.
var listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*$`)

// markupTags are the markup tag names checked for unclosed occurrences.
var markupTags = []string{
	"b", "i", "u", "em", "strong", "p", "div", "span",
	"table", "tr", "td", "th", "ul", "ol", "li", "code", "pre",
}

// truncationRule is one Tier A structural check: it either stays silent or
// produces a finding message.
type truncationRule func(text string) (bool, string, severity)

// truncationRules is evaluated uniformly; every hit marks the answer
// truncated (R2.1-R2.6).
var truncationRules = []truncationRule{
	checkUnterminatedSentence,
	checkUnbalancedDelimiter('(', ')', "parentheses"),
	checkUnbalancedDelimiter('[', ']', "square brackets"),
	checkUnbalancedDelimiter('{', '}', "braces"),
	checkUnbalancedCodeFences,
	checkUnbalancedQuotes,
	checkUnfinishedList,
	checkDanglingWord,
	checkUnevenTableRows,
	checkUnclosedMarkup,
}

// truncationFindings runs every Tier A rule against the answer.
func (v *Validator) truncationFindings(text string) []finding {
	var findings []finding
	for _, rule := range truncationRules {
		if fired, message, sev := rule(text); fired {
			findings = append(findings, finding{
				message:    message,
				severity:   sev,
				truncation: true,
			})
		}
	}
	return findings
}

func checkUnterminatedSentence(text string) (bool, string, severity) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minSentenceLength {
		return false, "", 0
	}
	runes := []rune(trimmed)
	last := runes[len(runes)-1]
	if terminalRunes[last] {
		return false, "", 0
	}
	return true, "text ends mid-sentence without terminal punctuation", severityStructural
}

func checkUnbalancedDelimiter(open, close rune, name string) truncationRule {
	return func(text string) (bool, string, severity) {
		if strings.Count(text, string(open)) != strings.Count(text, string(close)) {
			return true, "unbalanced " + name, severityHard
		}
		return false, "", 0
	}
}

func checkUnbalancedCodeFences(text string) (bool, string, severity) {
	if strings.Count(text, "```")%2 != 0 {
		return true, "unclosed code fence", severityHard
	}
	return false, "", 0
}

func checkUnbalancedQuotes(text string) (bool, string, severity) {
	if strings.Count(text, `"`)%2 != 0 {
		return true, "unbalanced double quotes", severityHard
	}
	return false, "", 0
}

func checkUnfinishedList(text string) (bool, string, severity) {
	lines := strings.Split(strings.TrimRight(text, "\n \t"), "\n")
	if len(lines) == 0 {
		return false, "", 0
	}
	if listMarkerPattern.MatchString(lines[len(lines)-1]) {
		return true, "list ends on an empty item marker", severityStructural
	}
	return false, "", 0
}

func checkDanglingWord(text string) (bool, string, severity) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false, "", 0
	}
	tail := []rune(fields[len(fields)-1])
	if terminalRunes[tail[len(tail)-1]] {
		return false, "", 0
	}
	last := strings.ToLower(strings.Trim(fields[len(fields)-1], `,"'()[]`))
	if danglingWords[last] {
		return true, fmt.Sprintf("text ends abruptly on %q", last), severityStructural
	}
	return false, "", 0
}

// checkUnevenTableRows flags pipe-delimited table blocks whose rows disagree
// on column count, a sign the table was cut off mid-row.
func checkUnevenTableRows(text string) (bool, string, severity) {
	for _, block := range tableBlocks(text) {
		want := strings.Count(block[0], "|")
		for _, row := range block[1:] {
			if strings.Count(row, "|") != want {
				return true, "table rows have uneven column counts", severityStructural
			}
		}
	}
	return false, "", 0
}

// tableBlocks groups consecutive lines that look like markdown table rows.
func tableBlocks(text string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "|") >= 2 {
			current = append(current, line)
			continue
		}
		if len(current) >= 2 {
			blocks = append(blocks, current)
		}
		current = nil
	}
	if len(current) >= 2 {
		blocks = append(blocks, current)
	}
	return blocks
}

func checkUnclosedMarkup(text string) (bool, string, severity) {
	lower := strings.ToLower(text)
	for _, tag := range markupTags {
		opens := strings.Count(lower, "<"+tag+">") + strings.Count(lower, "<"+tag+" ")
		closes := strings.Count(lower, "</"+tag+">")
		if opens != closes {
			return true, fmt.Sprintf("unclosed <%s> markup", tag), severityHard
		}
	}
	return false, "", 0
}
