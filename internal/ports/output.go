package ports

import "target-resolver/internal/types"

type OutputPort interface {
	WritePatternResults(results types.PatternResultMap, format types.OutputFormat) error
}
