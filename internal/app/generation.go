package app

import (
	"context"
	"strings"
	"time"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

// Generation is the text-generation capability. It is either Available (backed by a
// gateway) or Unavailable (never calls out); the variant is picked once at startup.
type Generation struct {
	gen     domain.TextGenerator
	timeout time.Duration
}

// Available wraps gen. A nil gen yields the Unavailable variant.
func Available(gen domain.TextGenerator, timeout time.Duration) Generation {
	if gen == nil {
		return Unavailable()
	}
	return Generation{gen: gen, timeout: timeout}
}

func Unavailable() Generation { return Generation{} }

func (g Generation) Ready() bool { return g.gen != nil }

// Generate bounds the call by the configured timeout. Blank output counts as a failure.
func (g Generation) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !g.Ready() {
		return "", domain.ErrGatewayUnavailable
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	out, err := g.gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", domain.ErrEmptyCompletion
	}
	return out, nil
}
