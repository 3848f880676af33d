package normalizer

import (
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_kurdish_nlp/internal/pool"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"golang.org/x/text/unicode/norm"
)

// FastNormalizer produces the same output as SoraniNormalizer in a single
// pass over the decomposed text with pooled buffers.
type FastNormalizer struct {
	rules       *strings.Replacer
	bytePool    *pool.BufferPool
	builderPool *pool.StringBuilderPool
}

// NewFastNormalizer creates a new fast normalizer
func NewFastNormalizer() ports.Normalizer {
	return &FastNormalizer{
		rules:       newRuleReplacer(),
		bytePool:    pool.NewBufferPool(8192), // 8K bytes initial capacity
		builderPool: pool.NewStringBuilderPool(),
	}
}

// Normalize performs Sorani normalization without a transform chain
func (n *FastNormalizer) Normalize(text string) string {
	// Fast path for empty strings
	if len(text) == 0 {
		return ""
	}

	// No rule touches ASCII and ASCII has no decomposition
	if isASCII(text) {
		return text
	}

	text = n.rules.Replace(text)

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)
	*buffer = norm.NFD.AppendString((*buffer)[:0], text)
	decomposed := *buffer

	sb := n.builderPool.Get()
	defer n.builderPool.Put(sb)
	sb.Grow(len(decomposed))

	for i := 0; i < len(decomposed); {
		r, size := utf8.DecodeRune(decomposed[i:])
		i += size
		if isDropped(r) {
			continue
		}
		sb.WriteRune(restoreHamzaSeat(r))
	}

	return sb.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
