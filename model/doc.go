// Package model provides chat model constants for all supported AI providers.
//
// This package exposes typed model constants with pricing information.
// Models know their provider, enabling automatic routing in the client.
//
// # Chat Models
//
// Use chat models with ai.WithModel() or as client defaults:
//
//	import (
//	    ai "github.com/openseva/seva"
//	    "github.com/openseva/seva/client"
//	    "github.com/openseva/seva/model"
//	)
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{
//	        Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
//	        OpenAI:    os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Defaults: client.Defaults{
//	        Chat: model.Claude35Haiku,
//	    },
//	})
//
//	// Override with a different model (routes to OpenAI)
//	resp, err := c.Chat(ctx, messages, ai.WithModel(model.GPT52))
//
// # Pricing Information
//
// All models include pricing methods for cost estimation:
//
//	pricing := model.GPT52.Pricing()
//	inputCost := float64(inputTokens) / 1_000_000 * pricing.InputPerMillion
//	outputCost := float64(outputTokens) / 1_000_000 * pricing.OutputPerMillion
//
// Or use the cost helper directly:
//
//	cost := model.Claude35Haiku.Cost(resp.Usage)
//
// Some pricing fields are provider-specific. Use helper methods to check
// availability:
//
//	pricing := model.GPT52.Pricing()
//	if pricing.HasCachedPricing() {
//	    cachedCost := float64(cachedTokens) / 1_000_000 * pricing.CachedInputPerMillion
//	}
package model
