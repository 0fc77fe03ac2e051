package coordinator

import (
	"strings"
	"unicode"
)

// riskKeywords mark sentences that must survive compression. The review
// corpus is largely Chinese-language contract text, so the keyword set is
// bilingual.
var riskKeywords = []string{
	"风险", "违约", "责任", "义务", "权利", "付款", "价格", "标准", "要求",
	"risk", "default", "liability", "obligation", "payment", "penalty", "termination",
}

// normalizeWhitespace collapses runs of blanks and trims each line, keeping
// line structure intact. The fingerprint is taken over the normalized text so
// cosmetic whitespace differences share a cache entry.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.FieldsFunc(line, unicode.IsSpace)
		collapsed := strings.Join(fields, " ")
		if collapsed == "" {
			continue
		}
		out = append(out, collapsed)
	}
	return strings.Join(out, "\n")
}

// compress reduces text to at most maxRunes while preserving risk-relevant
// content: the leading portion of the document is kept verbatim, then
// sentences containing risk keywords are appended until the budget runs out.
// Text already within budget passes through unchanged.
func compress(text string, maxRunes int) string {
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return text
	}

	// First third of the budget goes to the document head, which carries the
	// parties, subject matter and price terms in most contracts.
	headLen := maxRunes / 3
	head := string(runes[:headLen])

	var b strings.Builder
	b.WriteString(head)
	remaining := maxRunes - headLen

	for _, sentence := range splitSentences(string(runes[headLen:])) {
		if !containsKeyword(sentence) {
			continue
		}
		need := len([]rune(sentence)) + 1
		if need > remaining {
			break
		}
		b.WriteString("\n")
		b.WriteString(sentence)
		remaining -= need
	}

	return b.String()
}

// splitSentences cuts text on CJK and ASCII sentence terminators, trimming
// blanks and dropping empties.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '。', '！', '？', '；', '.', '!', '?', ';', '\n':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range riskKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
