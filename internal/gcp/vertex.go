package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// --- Extractor Model Prompts ---
const ExtractorSystemPrompt = "You are a data extraction specialist for public library annual reports. Your task is to extract structured statistics from report text. You must output your response as a single, valid JSON object and nothing else."

const extractorPromptTemplate = `You will be given one section of the %d annual report for "%s". Extract every statistic you can find into a JSON object with this exact shape:

{
  "libraryOverview":    { "populationServed": number, "registeredMembers": number, "totalStaff": number, "serviceOutlets": number },
  "collectionOverview": { "totalItems": number, "printItems": number, "electronicItems": number, "audioVisualItems": number },
  "usageStatistics":    { "totalVisits": number, "totalCirculation": number, "websiteVisits": number, "referenceQueries": number },
  "financialOverview":  { "totalIncome": number, "totalExpenditure": number, "staffExpenditure": number, "materialsExpenditure": number },
  "collectionData":     [ { "name": string, "value": number } ],
  "circulationData":    [ { "name": string, "value": number } ],
  "membershipData":     [ { "name": string, "value": number } ],
  "digitalResources":   [ { "name": string, "value": number } ],
  "programData":        [ { "name": string, "sessions": number, "attendance": number } ],
  "outreachData":       [ { "name": string, "sessions": number, "attendance": number } ],
  "summerReading":      [ { "name": string, "registered": number, "sessions": number, "attendance": number } ],
  "findings":           { "strengths": [string], "areasForDevelopment": [string] }
}

Follow these rules precisely:
1.  Only report figures that are explicitly stated in the provided text. Never estimate, extrapolate, or invent a number.
2.  If this section contains no evidence for a field, use null or omit the field entirely. Omit whole sections the text says nothing about. An empty object {} is a valid response for a section of the report with no statistics.
3.  "collectionData" breaks the collection down by category (e.g. "Adult Fiction", "Children's Non-Fiction"), "circulationData" breaks loans down by category, "membershipData" breaks members down by group, and "digitalResources" breaks electronic resource usage down by platform or resource.
4.  "programData" and "outreachData" list program categories with how many sessions ran and their total attendance. "summerReading" additionally records how many participants registered.
5.  "findings" captures qualitative observations from the narrative: notable strengths of the service, and areas the report identifies for development or improvement. Quote or closely paraphrase the report's own wording.
6.  Numbers must be plain JSON numbers: strip currency symbols, thousands separators and units.
7.  Return ONLY the JSON object. Do not include any explanation before or after it, and do not wrap it in backtick fences.

The report section follows:`

// BuildExtractorPrompt renders the shared per-run instruction template with
// the document's metadata. The same prompt is used for every chunk of a run.
func BuildExtractorPrompt(libraryName string, year int) string {
	return fmt.Sprintf(extractorPromptTemplate, year, libraryName)
}

// VertexClient holds the pre-configured extraction model for the pipeline.
type VertexClient struct {
	ExtractorModel *genai.GenerativeModel
	baseClient     *genai.Client
}

// NewVertexClient creates a client holding the configured extractor model.
// A failure here is the one irrecoverable oracle failure: it aborts the run
// before any chunk is attempted.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	extractorModel := baseClient.GenerativeModel("gemini-1.5-pro")
	extractorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ExtractorSystemPrompt)},
	}
	extractorModel.GenerationConfig = genai.GenerationConfig{
		// Force JSON output. This is a critical setting for this model.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0), // Low temp for deterministic, structured output
	}
	extractorModel.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		ExtractorModel: extractorModel,
		baseClient:     baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
