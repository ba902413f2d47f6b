// OpenAI-compatible implementation of [Generator]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/sashabaranov/go-openai"
)

const suggestionPrompt = `You are a music expert who creates personalized playlists based on user requests.

User request: %q

Based on this request, create a playlist that matches the mood, genre, or theme the user is looking for.

Respond with the following JSON only, without any additional text:
{
  "playlistName": "Name of the playlist",
  "playlistDescription": "A brief description of the playlist",
  "tracks": [
    {
      "name": "Song Title",
      "artists": [{"name": "Artist Name"}],
      "uri": "spotify:track:XXXX"
    }
  ]
}

For the track URIs, use realistic-looking Spotify track IDs (24 character alphanumeric strings) in the format spotify:track:XXXX.
Include 5 tracks unless the user asked for a specific number.`

const conversationPrompt = `You are a helpful music assistant called "Playlist Curator" that specializes in helping users discover music and create playlists.

When users ask for music recommendations or playlists, suggest they try creating a playlist.

Keep your responses conversational, friendly, and focused on music.`

// OpenAIGenerator implements [Generator] using an OpenAI-compatible chat
// completion API.
type OpenAIGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIGenerator creates a generator from OpenAI credentials.
func NewOpenAIGenerator(cfg shared.OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI API key", shared.ErrMissingCredentials)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &OpenAIGenerator{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// complete sends a single-turn chat completion and returns the text.
func (g *OpenAIGenerator) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", shared.ErrGenerationFailed)
	}

	return resp.Choices[0].Message.Content, nil
}

// SuggestPlaylist asks the model for a candidate playlist matching the
// user's intent. Track URIs in the result are the model's invention and
// must be reconciled against the real catalog before use.
func (g *OpenAIGenerator) SuggestPlaylist(ctx context.Context, intent string) (*GenerationResult, error) {
	text, err := g.complete(ctx, "", fmt.Sprintf(suggestionPrompt, intent))
	if err != nil {
		return nil, err
	}

	suggestion, err := parseSuggestion(text)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf(
		"Based on your request, I've created a %q playlist. Would you like me to save this to your Spotify account?",
		suggestion.Name,
	)

	return &GenerationResult{Message: message, Suggestion: suggestion}, nil
}

// Converse produces a plain conversational response about music.
func (g *OpenAIGenerator) Converse(ctx context.Context, message string) (string, error) {
	return g.complete(ctx, conversationPrompt, message)
}

// suggestionPayload is the JSON shape the prompt requests from the model.
type suggestionPayload struct {
	PlaylistName        string         `json:"playlistName"`
	PlaylistDescription string         `json:"playlistDescription"`
	Tracks              []models.Track `json:"tracks"`
}

// parseSuggestion extracts the playlist JSON object from model output.
//
// Models wrap JSON in prose or code fences often enough that the parser
// scans for the outermost object instead of decoding the raw response.
// Malformed track entries are dropped; zero tracks is not an error.
func parseSuggestion(text string) (*models.PlaylistSuggestion, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in model output", shared.ErrGenerationFailed)
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGenerationFailed, err)
	}

	if strings.TrimSpace(payload.PlaylistName) == "" {
		return nil, fmt.Errorf("%w: suggestion missing playlist name", shared.ErrGenerationFailed)
	}

	tracks := make([]models.Track, 0, len(payload.Tracks))
	for _, track := range payload.Tracks {
		if track.Valid() {
			tracks = append(tracks, track)
		}
	}

	return &models.PlaylistSuggestion{
		Name:        payload.PlaylistName,
		Description: payload.PlaylistDescription,
		Tracks:      tracks,
	}, nil
}
