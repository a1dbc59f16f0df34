package anthropic

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	model         = "claude-3-haiku-20240307"
	maxTokens     = 64
)

// ErrUnparsableReply is returned when the model's answer lacks the requested figures.
var ErrUnparsableReply = errors.New("could not parse figures from ai reply")

var (
	yieldPattern = regexp.MustCompile(`(?i)yield:\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	pricePattern = regexp.MustCompile(`(?i)price:\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
)

// Client defines the AI lookups used to complete reference data.
type Client interface {
	// EstimatePrice returns the current market price per kg for crop.
	EstimatePrice(ctx context.Context, crop string) (float64, error)
	// EstimateYieldAndPrice returns yield per acre (kg) and price per kg for crop.
	EstimateYieldAndPrice(ctx context.Context, crop string) (float64, float64, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	apiURL     string
}

// Option customises the client.
type Option func(*anthropicClient)

// WithAPIURL points the client at a different messages endpoint.
func WithAPIURL(url string) Option {
	return func(c *anthropicClient) {
		c.apiURL = url
	}
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	c := &anthropicClient{httpClient: client, apiURL: defaultAPIURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = `You are an agricultural market specialist for India. Answer with numbers only, in exactly the format requested, with no commentary.`

const referenceHints = `For reference:
Typical yields (2023-24):
- Rice: 1162 kg/acre
- Wheat: 1463 kg/acre
- Cotton: 176 kg/acre
- Potato: 9713 kg/acre

Typical prices:
- Rice: 20-25 Rs/kg
- Wheat: 25-30 Rs/kg
- Cotton: 60-70 Rs/kg
- Potato: 15-20 Rs/kg`

func (c *anthropicClient) EstimatePrice(ctx context.Context, crop string) (float64, error) {
	prompt := fmt.Sprintf("Provide the current market price per kg for %s in India based on recent trends, in rupees per kg.\n\n%s\n\nRespond EXACTLY in this format:\nPrice: XXX", crop, referenceHints)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return 0, err
	}

	_, price, err := ParseFigures(reply)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: no price in %q", ErrUnparsableReply, reply)
	}
	return price, nil
}

func (c *anthropicClient) EstimateYieldAndPrice(ctx context.Context, crop string) (float64, float64, error) {
	prompt := fmt.Sprintf("For the crop %s in India:\n1. Provide its yield per acre (in kg/acre)\n2. Provide its current market price (in Rs/kg)\n\n%s\n\nRespond EXACTLY in this format:\nYield: XXX\nPrice: XXX", crop, referenceHints)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return 0, 0, err
	}

	yieldPerAcre, price, err := ParseFigures(reply)
	if err != nil {
		return 0, 0, err
	}
	if yieldPerAcre <= 0 || price <= 0 {
		return 0, 0, fmt.Errorf("%w: incomplete figures in %q", ErrUnparsableReply, reply)
	}
	return yieldPerAcre, price, nil
}

func (c *anthropicClient) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := messageRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      systemPrompt,
		Temperature: 0.2,
		Messages:    []Message{{Role: "user", Content: prompt}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	return strings.TrimSpace(respBody.Content[0].Text), nil
}

// ParseFigures extracts "Yield: n" and "Price: n" values from a reply. A
// missing figure is returned as zero; an error is returned only when neither
// is present.
func ParseFigures(reply string) (yieldPerAcre, price float64, err error) {
	yieldPerAcre = matchNumber(yieldPattern, reply)
	price = matchNumber(pricePattern, reply)
	if yieldPerAcre == 0 && price == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnparsableReply, reply)
	}
	return yieldPerAcre, price, nil
}

func matchNumber(pattern *regexp.Regexp, text string) float64 {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
