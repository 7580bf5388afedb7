// Package genlang implements the LanguageClient port using the Google
// generative-language API via the genai SDK.
package genlang

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LanguageClient = (*Client)(nil)

// Client implements the driven.LanguageClient port. One Client is bound to
// one API key; swapping keys means constructing a new Client.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a generative-language client for the given API key and
// model name. The key is only checked for non-emptiness here; whether the
// service accepts it is the job of Verify.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{genai: client, model: model}, nil
}

// Verify performs one minimal generate call as a connectivity probe. A nil
// return means the service accepted the credential. Auth rejection and
// network failure both surface as a non-nil error; callers do not
// distinguish them. No timeout is imposed beyond ctx.
func (c *Client) Verify(ctx context.Context) error {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	}

	if _, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text("ping"), config); err != nil {
		return fmt.Errorf("connectivity probe: %w", err)
	}
	return nil
}

// GenerateDraft produces evaluation text for one roster row.
func (c *Client) GenerateDraft(ctx context.Context, req model.DraftRequest) (string, error) {
	prompt := BuildPrompt(req)

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate draft: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("generate draft: empty response")
	}
	return text, nil
}

// BuildPrompt assembles the drafting prompt for a row. Exported for tests;
// the wording is deliberately plain so the model output needs little cleanup.
func BuildPrompt(req model.DraftRequest) string {
	var b strings.Builder

	b.WriteString("Write a short student evaluation paragraph for a school record.\n")
	switch req.Tone {
	case model.ToneFormal:
		b.WriteString("Use a formal, official register suitable for administrative documents.\n")
	default:
		b.WriteString("Use a descriptive, narrative register focused on observed behavior.\n")
	}
	b.WriteString("Write in the third person, two to four sentences, no headings or bullet points.\n\n")

	fmt.Fprintf(&b, "Student: %s\n", req.StudentName)
	fmt.Fprintf(&b, "Teacher observations: %s\n", req.Observations)

	return b.String()
}
