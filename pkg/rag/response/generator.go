package response

import (
	"context"
	"errors"
	"log"

	"legal-research-be/pkg/llm"
)

// BaselineModel answers whenever the preferred model is unknown or rejected
// upstream.
const BaselineModel = "gpt-4o-mini"

// modelAliases maps the plan-level preference names to concrete backend
// models. Unknown aliases resolve to BaselineModel.
var modelAliases = map[string]string{
	"fast":     "gpt-4o-mini",
	"standard": "gpt-4o",
	"advanced": "gpt-4.1",
	"baseline": BaselineModel,
}

// Generator calls the language model with alias resolution and a single
// retry against the baseline when the preferred model does not exist.
type Generator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewGenerator(provider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger,
	}
}

// ResolveModel maps an alias or concrete model preference to the backend
// model name.
func ResolveModel(preference string) string {
	if preference == "" {
		return BaselineModel
	}
	if model, ok := modelAliases[preference]; ok {
		return model
	}
	return BaselineModel
}

// Generate runs the message sequence against the resolved model. On a
// model-not-found error it retries once against BaselineModel and surfaces
// the substitution through ChatResult.Model. All other errors pass through
// carrying their llm sentinel for the caller to classify.
func (g *Generator) Generate(ctx context.Context, messages []llm.Message, modelPreference string) (*llm.ChatResult, error) {
	model := ResolveModel(modelPreference)

	result, err := g.provider.Chat(ctx, messages, llm.WithModel(model))
	if err == nil {
		return result, nil
	}

	if errors.Is(err, llm.ErrModelNotFound) && model != BaselineModel {
		g.logger.Printf("[WARN] Model %q rejected upstream, retrying with baseline %q", model, BaselineModel)
		result, err = g.provider.Chat(ctx, messages, llm.WithModel(BaselineModel))
		if err != nil {
			return nil, err
		}
		result.Model = BaselineModel
		return result, nil
	}

	return nil, err
}
