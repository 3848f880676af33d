package normalizer

import "github.com/baditaflorin/go_kurdish_nlp/internal/ports"

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// Type of normalizer to create
type NormalizerType int

const (
	// SoraniNormalizerType uses golang.org/x/text transform chains
	SoraniNormalizerType NormalizerType = iota
	// FastNormalizerType uses a single pass with pooled buffers
	FastNormalizerType
)

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case FastNormalizerType:
		return NewFastNormalizer()
	default:
		return NewSoraniNormalizer()
	}
}
