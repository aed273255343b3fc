package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

const (
	maxResults        = 5
	fallbackMaxTokens = 200
)

// Which attempt produced a ChatResult.
const (
	PathKeyword  = "keyword"
	PathCleaned  = "cleaned"
	PathFallback = "fallback"
)

// FallbackCategories are offered to the user when nothing matched.
var FallbackCategories = []string{"한식", "중식", "양식", "치킨"}

const fallbackPrompt = `사용자가 "%s"라고 물었는데 검색 결과가 없어.
데이터베이스에 없는 식당이거나 메뉴인 것 같아.
친절하게 위로해주고, "%s" 중에서 골라달라고 짧게 한 문장으로 말해줘.`

// ChatResult is either a success (non-empty Restaurants) or a fallback
// (empty Restaurants), never both.
type ChatResult struct {
	Message     string
	Restaurants []domain.SearchResult
	Path        string
}

type ChatResolver struct {
	extractor *KeywordExtractor
	search    *SearchEngine
	gen       Generation
	shuffle   func(n int, swap func(i, j int))
}

func NewChatResolver(ext *KeywordExtractor, search *SearchEngine, gen Generation) *ChatResolver {
	return &ChatResolver{extractor: ext, search: search, gen: gen, shuffle: rand.Shuffle}
}

// WithShuffle replaces the permutation used before truncating results.
func (r *ChatResolver) WithShuffle(fn func(n int, swap func(i, j int))) *ChatResolver {
	r.shuffle = fn
	return r
}

// Resolve runs extraction, search, one cleaned retry, then fallback messaging.
// utterance must be non-empty.
func (r *ChatResolver) Resolve(ctx context.Context, utterance string) ChatResult {
	keyword := r.extractor.Extract(ctx, utterance)
	log.Info().Str("utterance", utterance).Str("keyword", keyword).Msg("keyword extracted")

	if found := r.search.Search(ctx, keyword); len(found) > 0 {
		return r.success(keyword, found, PathKeyword)
	}

	// Retry with the original utterance, not the extracted keyword.
	if cleaned := Clean(utterance); cleaned != "" {
		log.Info().Str("cleaned", cleaned).Msg("keyword search empty, retrying with cleaned utterance")
		if found := r.search.Search(ctx, cleaned); len(found) > 0 {
			return r.success(cleaned, found, PathCleaned)
		}
	}

	return ChatResult{
		Message:     r.fallbackMessage(ctx, utterance),
		Restaurants: []domain.SearchResult{},
		Path:        PathFallback,
	}
}

func (r *ChatResolver) success(term string, found []domain.SearchResult, path string) ChatResult {
	r.shuffle(len(found), func(i, j int) { found[i], found[j] = found[j], found[i] })
	if len(found) > maxResults {
		found = found[:maxResults]
	}
	return ChatResult{
		Message:     fmt.Sprintf("'%s' 관련 맛집을 찾아봤어요! 😋", term),
		Restaurants: found,
		Path:        path,
	}
}

func (r *ChatResolver) fallbackMessage(ctx context.Context, utterance string) string {
	apology := fmt.Sprintf("'%s'에 대한 정보를 못 찾겠어요 ㅠㅠ", utterance)
	if !r.gen.Ready() {
		return apology
	}
	prompt := fmt.Sprintf(fallbackPrompt, utterance, strings.Join(FallbackCategories, ", "))
	msg, err := r.gen.Generate(ctx, prompt, fallbackMaxTokens)
	if err != nil {
		log.Warn().Err(err).Msg("fallback message generation failed")
		return apology
	}
	return strings.TrimSpace(msg)
}
