package amstar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/util"
)

// OpenAIAnswerer answers extractive questions through an OpenAI-compatible
// chat endpoint. Any server speaking the chat-completions protocol works
// via base_url, including local inference servers.
type OpenAIAnswerer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIAnswerer creates an answerer from the QA configuration.
func NewOpenAIAnswerer(cfg model.QAConfig) (*OpenAIAnswerer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("QA API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
	}

	qaModel := cfg.Model
	if qaModel == "" {
		qaModel = openai.GPT4oMini
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 2
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 5
	}

	return &OpenAIAnswerer{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   qaModel,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
	}, nil
}

const answerSystemPrompt = `You answer questions about a systematic review using only the supplied text. Reply with a single JSON object {"answer": "<verbatim supporting span or empty>", "score": <confidence between 0 and 1>}. If the text does not answer the question, return an empty answer with score 0.`

// maxQAContext bounds the text sent per question.
const maxQAContext = 12000

// Answer implements Answerer.
func (a *OpenAIAnswerer) Answer(ctx context.Context, question, text string) (Answer, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return Answer{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if len(text) > maxQAContext {
		text = text[:maxQAContext]
	}
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: answerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\n\nText:\n%s", question, text)},
		},
		MaxTokens:   200,
		Temperature: 0,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Answer{}, fmt.Errorf("QA request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Answer{}, fmt.Errorf("QA request: empty response")
	}
	return parseAnswer(resp.Choices[0].Message.Content)
}

func parseAnswer(content string) (Answer, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed struct {
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return Answer{}, fmt.Errorf("QA response not parseable: %w", err)
	}
	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 1 {
		parsed.Score = 1
	}
	return Answer{Text: parsed.Answer, Score: parsed.Score}, nil
}
