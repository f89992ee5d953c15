// Package categorizer classifies attendee bios as LEAD, TALENT or PARTNER
// using hosted model inference. Failures never propagate: the boundary
// collapses every problem to PARTNER with a diagnostic reasoning string.
package categorizer

import (
	"context"
	"fmt"
	"strings"

	"innovation_hunt/internal/model"
)

// maxReasoningLen bounds the diagnostic/reasoning text we keep around.
const maxReasoningLen = 500

type Result struct {
	Category  model.Category
	Reasoning string
}

type Client interface {
	Categorize(ctx context.Context, profileText string) (Result, error)
}

// CategorizeOrDefault is the boundary used by the message flow. Empty or
// whitespace-only text short-circuits to PARTNER without a network call;
// client errors degrade to PARTNER with the failure as reasoning.
func CategorizeOrDefault(ctx context.Context, c Client, profileText string) Result {
	if strings.TrimSpace(profileText) == "" {
		return Result{
			Category:  model.CategoryPartner,
			Reasoning: "Empty profile text",
		}
	}

	res, err := c.Categorize(ctx, profileText)
	if err != nil {
		return Result{
			Category:  model.CategoryPartner,
			Reasoning: truncate(fmt.Sprintf("categorization failed: %v", err), maxReasoningLen),
		}
	}
	return res
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
