package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dgallion1/syllaboss/internal/course"
)

// ErrExtraction wraps every failure to obtain a record from a provider:
// transport errors, non-2xx responses, processing failures and replies that
// are not JSON at all. A reply that is JSON but not a course record is
// reported as course.ErrDataFormat instead.
var ErrExtraction = errors.New("extraction failed")

const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Extractor turns an uploaded syllabus PDF into a course record.
type Extractor interface {
	Extract(ctx context.Context, filename string, pdf []byte) (*course.Record, error)
	Close() error
}

// Timed wraps an Extractor and records every call's latency in stats.
type Timed struct {
	Extractor
	stats *LLMStats
}

func WithStats(e Extractor, stats *LLMStats) *Timed {
	return &Timed{Extractor: e, stats: stats}
}

func (t *Timed) Extract(ctx context.Context, filename string, pdf []byte) (*course.Record, error) {
	start := time.Now()
	rec, err := t.Extractor.Extract(ctx, filename, pdf)
	t.stats.Record(time.Since(start).Milliseconds(), err == nil)
	return rec, err
}

// decodeReply parses a model reply after stripping any markdown code fence.
func decodeReply(provider, text string) (*course.Record, error) {
	text = stripCodeBlock(text)
	if !strings.HasPrefix(text, "{") {
		return nil, fmt.Errorf("%w: %s returned non-JSON reply: %s", ErrExtraction, provider, truncate(text, 200))
	}
	rec, err := course.Decode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s reply: %w", provider, err)
	}
	return rec, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
