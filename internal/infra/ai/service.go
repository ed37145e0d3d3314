package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// JudgmentRequest carries everything the model sees: both evidence images
// and the structured context about the two works. FromTitle is always the
// inspiration side.
type JudgmentRequest struct {
	FromTitle string
	FromType  string
	FromYear  int
	ToTitle   string
	ToType    string
	ToYear    int

	ConnectionType string
	UserComment    string

	FromImage []byte
	ToImage   []byte
}

// Judge produces a free-text verdict on a claimed connection. The judgment
// is advisory only; the admin decision is authoritative regardless.
type Judge interface {
	Judge(ctx context.Context, req JudgmentRequest) (string, error)
}

var ErrJudgmentFailed = errors.New("failed to get AI judgment")

type OpenAIJudge struct {
	client *openai.Client
	model  string
}

// NewOpenAIJudge builds the production judge. The 30 second client timeout
// bounds the whole call; there are no retries, callers fail closed.
func NewOpenAIJudge(apiKey, model string) *OpenAIJudge {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	return &OpenAIJudge{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (j *OpenAIJudge) Judge(ctx context.Context, req JudgmentRequest) (string, error) {
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       j.model,
		MaxTokens:   1000,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: buildPrompt(req),
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL(req.FromImage)},
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL(req.ToImage)},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJudgmentFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrJudgmentFailed
	}
	return resp.Choices[0].Message.Content, nil
}

func imageDataURL(img []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)
}

func buildPrompt(req JudgmentRequest) string {
	return fmt.Sprintf(`User believes that %q (%s, %d) inspired %q (%s, %d) through %q connection.
Connection Types:
- Visual Homage: Direct visual references or similar scenes
- Quote Borrowing: Direct or adapted dialogue/text quotes
- Thematic Echo: Similar themes, messages, or story elements
- Character Inspiration: Similar character traits or arcs
- Other: Other types of connections

Image 1 is a scene from %q and Image 2 is a scene from %q.
User's explanation: %q.

RESPONSE FORMAT:
VALIDITY: [Must be exactly "Likely Valid" or "Likely Invalid"]
EXPLANATION: [Brief explanation within 100 words]

RULES:
1. If the images do not match the described works, mark as "Likely Invalid"
2. The validity must be the first word of your response
3. If the connection type does not match the evidence (images/explanation), mark as "Likely Invalid"
4. Keep the explanation concise and focused on the connection between the works`,
		req.FromTitle, req.FromType, req.FromYear,
		req.ToTitle, req.ToType, req.ToYear,
		req.ConnectionType,
		req.FromTitle, req.ToTitle,
		req.UserComment,
	)
}
