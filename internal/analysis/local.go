package analysis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Local runs analyses in-process and decodes them for the description advisor.
type Local struct {
	Service *Service
}

// Analyze runs r and decodes the reply into a Result.
func (l Local) Analyze(ctx context.Context, r Request) (*Result, error) {
	raw, err := l.Service.Analyze(ctx, r)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	return &res, nil
}
