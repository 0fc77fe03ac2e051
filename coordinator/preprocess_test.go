package coordinator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riskmesh/riskmesh/core"
)

func TestNormalizeWhitespace(t *testing.T) {
	in := "  第一条\t服务内容   \n\n\n乙方  提供   咨询服务\n   "
	assert.Equal(t, "第一条 服务内容\n乙方 提供 咨询服务", normalizeWhitespace(in))
}

func TestNormalizeWhitespace_SharesFingerprint(t *testing.T) {
	a := normalizeWhitespace("合同 正文\n付款 条款")
	b := normalizeWhitespace("  合同   正文  \n\n 付款\t条款 ")
	assert.Equal(t, core.TextFingerprint(a), core.TextFingerprint(b))
}

func TestCompress_PassThroughUnderBudget(t *testing.T) {
	text := "短文本，无需压缩。"
	assert.Equal(t, text, compress(text, 100))
	assert.Equal(t, text, compress(text, 0), "zero budget disables compression")
}

func TestCompress_KeepsKeywordSentences(t *testing.T) {
	var b strings.Builder
	b.WriteString(strings.Repeat("无关的填充句子。", 200))
	b.WriteString("乙方承担全部违约责任。")
	b.WriteString(strings.Repeat("更多无关内容。", 200))
	b.WriteString("付款期限为七日。")

	out := compress(b.String(), 600)

	assert.LessOrEqual(t, len([]rune(out)), 600)
	assert.Contains(t, out, "违约责任")
	assert.Contains(t, out, "付款期限")
}

func TestCompress_KeepsDocumentHead(t *testing.T) {
	head := "合同编号ABC123甲方某公司"
	text := head + strings.Repeat("filler text without matches here ", 100)

	out := compress(text, 90)
	assert.True(t, strings.HasPrefix(out, string([]rune(head)[:8])))
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("第一句。第二句！第三句？Fourth sentence. ；")
	assert.Equal(t, []string{"第一句", "第二句", "第三句", "Fourth sentence"}, got)
}
