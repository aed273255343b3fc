package app

import "strings"

// fillerWords are removed in this order.
var fillerWords = []string{"추천", "해줘", "맛집", "어디", "알려줘", "있어?", "가고싶어", "검색", "좀"}

// Clean strips request and filler words from an utterance. It is the
// deterministic second-attempt keyword when the extracted one finds nothing.
func Clean(utterance string) string {
	out := utterance
	for _, w := range fillerWords {
		out = strings.ReplaceAll(out, w, "")
	}
	return strings.TrimSpace(out)
}
