package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomoshibi/kotoba/pkg/classify"
	"github.com/tomoshibi/kotoba/pkg/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		query string
		want  model.ScriptType
	}{
		{"", model.ScriptMixed},
		{"   ", model.ScriptMixed},
		{"げんき", model.ScriptHiragana},
		{"ゲンキ", model.ScriptKatakana},
		{"明日", model.ScriptJapaneseKanjiShort},
		{"東京特許許可局", model.ScriptKanji},
		{"eat", model.ScriptRomaji},
		{"食べるeat", model.ScriptMixed},
		{"食べる", model.ScriptMixed},
		{"ー", model.ScriptMixed},
		{"123", model.ScriptMixed},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, classify.Classify(c.query), "query=%q", c.query)
	}
}

func TestClassify_KanjiShortBoundary(t *testing.T) {
	assert.Equal(t, model.ScriptJapaneseKanjiShort, classify.Classify("一二三"))
	assert.Equal(t, model.ScriptKanji, classify.Classify("一二三四"))
}
