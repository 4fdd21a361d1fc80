// Package tokencount counts embedding-input tokens with tiktoken-go.
//
// Encodings are served by the offline BPE loader so counting never needs
// network access.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Counter provides thread-safe token counting.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{
		encodingCache: make(map[string]*tiktoken.Tiktoken),
	}
}

// DefaultCounter is a global token counter instance.
var DefaultCounter = NewCounter()

func (c *Counter) getEncodingForModel(model string) (*tiktoken.Tiktoken, error) {
	normalizedModel := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[normalizedModel]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encodingCache[normalizedModel]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(normalizedModel)
	if err != nil {
		// Every OpenAI embedding model since ada-002 uses cl100k_base
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model),
			slog.String("normalized", normalizedModel),
			slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encodingCache[normalizedModel] = enc
	return enc, nil
}

// normalizeModelName maps embedding model ids to names tiktoken knows.
func normalizeModelName(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	if strings.HasPrefix(model, "text-embedding") {
		return "text-embedding-ada-002"
	}
	return model
}

// CountTokens counts the number of tokens in text for the given model.
func (c *Counter) CountTokens(text, model string) (int, error) {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountOrEstimate counts tokens, falling back to ~4 chars per token when no
// encoding can be loaded. The bool reports whether the count is exact.
func (c *Counter) CountOrEstimate(text, model string) (int, bool) {
	n, err := c.CountTokens(text, model)
	if err != nil {
		slog.Warn("failed to count tokens, using estimate",
			slog.String("model", model),
			slog.Any("error", err))
		return (len(text) + 3) / 4, false
	}
	return n, true
}

// CountTokensDefault uses the default counter to count tokens.
func CountTokensDefault(text, model string) (int, error) {
	return DefaultCounter.CountTokens(text, model)
}
