package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/Lllllllleong/libraryreportflow/internal/gcp"
	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

// ChunkExtractor sends one chunk of report text to the extraction model and
// parses its response into a PartialRecord. One attempt per chunk, no
// retries; a failed chunk is skipped by the caller.
type ChunkExtractor struct {
	vertexClient *gcp.VertexClient
}

func NewChunkExtractor(vertexClient *gcp.VertexClient) *ChunkExtractor {
	return &ChunkExtractor{vertexClient: vertexClient}
}

// ExtractChunk runs one chunk through the extraction model. Transport and
// model errors surface as *models.OracleError; an unusable response surfaces
// as *models.ParseError. Both are recoverable at the pipeline level.
func (e *ChunkExtractor) ExtractChunk(ctx context.Context, chunkText string, year int, libraryName string) (*models.PartialRecord, error) {
	model := e.vertexClient.ExtractorModel
	prompt := genai.Text(gcp.BuildExtractorPrompt(libraryName, year))

	resp, err := model.GenerateContent(ctx, prompt, genai.Text(chunkText))
	if err != nil {
		return nil, &models.OracleError{Err: fmt.Errorf("failed to generate content from gemini: %w", err)}
	}

	raw := extractResponseText(resp)
	if raw == "" {
		return nil, &models.ParseError{Err: fmt.Errorf("gemini returned an empty response")}
	}

	return parsePartialRecord(raw)
}

// extractResponseText concatenates the text parts of the model response and
// strips backtick fences the model sometimes adds despite instructions.
func extractResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}

	contentStr := strings.TrimSpace(contentBuilder.String())
	contentStr = strings.TrimPrefix(contentStr, "```json")
	contentStr = strings.TrimPrefix(contentStr, "```")
	contentStr = strings.TrimSuffix(contentStr, "```")
	return strings.TrimSpace(contentStr)
}

// parsePartialRecord locates the first well-formed JSON object in raw and
// unmarshals it. Surrounding prose or trailing text is tolerated; a response
// with no parseable object fails with *models.ParseError.
func parsePartialRecord(raw string) (*models.PartialRecord, error) {
	payload, ok := locateJSONObject(raw)
	if !ok {
		return nil, &models.ParseError{Err: fmt.Errorf("no parseable JSON object in response")}
	}

	var partial models.PartialRecord
	if err := json.Unmarshal([]byte(payload), &partial); err != nil {
		return nil, &models.ParseError{Err: fmt.Errorf("failed to unmarshal extraction payload: %w", err)}
	}
	return &partial, nil
}

// locateJSONObject returns the first substring of raw that decodes as a
// single JSON object.
func locateJSONObject(raw string) (string, bool) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var obj map[string]json.RawMessage
		if err := dec.Decode(&obj); err == nil {
			return raw[i : i+int(dec.InputOffset())], true
		}
	}
	return "", false
}
