package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const keywordMaxTokens = 50

const keywordPrompt = `사용자가 맛집을 찾고 있어. 다음 문장에서 검색에 사용할 핵심 단어 하나만 추출해줘.

[우선순위]
1. '식당 이름'이 있다면 무조건 식당 이름을 추출해. (예: "신안골분식 가고싶어" -> "신안골분식")
2. 식당 이름이 없다면 '메뉴'나 '음식 종류'를 추출해. (예: "매운거 추천해줘" -> "매운")

설명 없이 단어만 딱 출력해.

문장: "%s"`

// trimmed from both ends of a model answer
const keywordCutset = " \t\r\n\"'`“”‘’"

type KeywordExtractor struct {
	gen Generation
}

func NewKeywordExtractor(gen Generation) *KeywordExtractor {
	return &KeywordExtractor{gen: gen}
}

// Extract asks the gateway for a single search keyword. It never fails; on any
// gateway problem the utterance itself is the keyword.
func (e *KeywordExtractor) Extract(ctx context.Context, utterance string) string {
	if !e.gen.Ready() {
		return utterance
	}
	out, err := e.gen.Generate(ctx, fmt.Sprintf(keywordPrompt, utterance), keywordMaxTokens)
	if err != nil {
		log.Warn().Err(err).Str("utterance", utterance).Msg("keyword extraction failed, using utterance")
		return utterance
	}
	kw := strings.Trim(out, keywordCutset)
	if kw == "" {
		return utterance
	}
	return kw
}
