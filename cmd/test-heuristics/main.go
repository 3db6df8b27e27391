// Test program to demonstrate the offline heuristic verdicts
// This shows keyword scoring and domain reputation working without a model
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/pipeline"
	"github.com/ppiankov/truevail/internal/reputation"
)

func main() {
	fmt.Println("=== Heuristic Verdict Test ===")
	fmt.Println()

	strategy := pipeline.NewHeuristicStrategy(nil, nil)
	ctx := context.Background()

	samples := []model.Input{
		{Kind: model.KindNews, Content: "BREAKING!!! You won't believe this SHOCKING secret they don't want you to know!"},
		{Kind: model.KindNews, Content: "According to a peer-reviewed study published by the university, researchers confirmed the findings."},
		{Kind: model.KindAdvanced, Content: "Everyone knows the mainstream media is hiding the truth. Wake up before it is too late!"},
		{Kind: model.KindPrivacy, Content: "Contact me at jane.doe@example.com or call 555-123-4567. My SSN is 123-45-6789."},
		{Kind: model.KindDeepfake, Content: "faceswap_celebrity_ai_generated.jpg"},
		{Kind: model.KindLink, Content: "https://www.bbc.com/news/world", URL: "https://www.bbc.com/news/world", Placeholder: true},
		{Kind: model.KindLink, Content: "http://bit.ly/3xYz", URL: "http://bit.ly/3xYz", Placeholder: true},
	}

	for _, in := range samples {
		fmt.Printf("Testing [%s]: %s\n", in.Kind, in.Content)
		fmt.Println(strings.Repeat("-", 60))

		result, err := strategy.Analyze(ctx, in)
		if err != nil {
			fmt.Printf("  Error: %v\n\n", err)
			continue
		}

		fmt.Printf("  Status:      %s\n", result.Status)
		fmt.Printf("  Confidence:  %.2f\n", result.Confidence)
		fmt.Printf("  Reason:      %s\n", result.Reason)
		if len(result.Evidence) > 0 {
			fmt.Println("  Evidence:")
			for _, e := range result.Evidence {
				fmt.Printf("    - %s\n", e)
			}
		}
		if result.Correction != nil {
			fmt.Printf("  Correction:  %s\n", *result.Correction)
		}
		if result.PrivacyRisk != "" {
			fmt.Printf("  Privacy:     %s (%s)\n", result.PrivacyRisk, result.PrivacyExplanation)
		}
		fmt.Println()
	}

	fmt.Println("=== Domain Reputation ===")
	fmt.Println()

	checker := reputation.NewChecker(nil)
	for _, domain := range []string{"reuters.com", "www.nytimes.com:443", "tinyurl.com", "truth-exposed-news.net", "example.org"} {
		v := checker.Classify(domain)
		fmt.Printf("  %-28s %-18s %.2f\n", domain, v.Status, v.Confidence)
	}

	fmt.Println("\n=== Test Complete ===")
}
