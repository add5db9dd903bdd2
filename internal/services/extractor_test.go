package services

import (
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

func TestParsePartialRecordPlainJSON(t *testing.T) {
	partial, err := parsePartialRecord(`{"libraryOverview":{"populationServed":52000}}`)
	require.NoError(t, err)
	require.NotNil(t, partial.LibraryOverview)
	assert.Equal(t, 52000.0, *partial.LibraryOverview.PopulationServed)
}

func TestParsePartialRecordToleratesSurroundingProse(t *testing.T) {
	raw := "Here are the statistics I found:\n" +
		`{"usageStatistics":{"totalVisits":42000},"collectionData":[{"name":"Fiction","value":20}]}` +
		"\nLet me know if you need anything else."

	partial, err := parsePartialRecord(raw)
	require.NoError(t, err)
	require.NotNil(t, partial.UsageStatistics)
	assert.Equal(t, 42000.0, *partial.UsageStatistics.TotalVisits)
	require.Len(t, partial.CollectionData, 1)
	assert.Equal(t, "Fiction", partial.CollectionData[0].Name)
}

func TestParsePartialRecordSkipsMalformedCandidates(t *testing.T) {
	// The first brace opens something unparseable; the parser must move on
	// to the next candidate object.
	raw := `{not json} {"financialOverview":{"totalIncome":250000}}`

	partial, err := parsePartialRecord(raw)
	require.NoError(t, err)
	require.NotNil(t, partial.FinancialOverview)
	assert.Equal(t, 250000.0, *partial.FinancialOverview.TotalIncome)
}

func TestParsePartialRecordBracesInsideStrings(t *testing.T) {
	raw := `{"findings":{"strengths":["community {and} partner engagement"]}}`

	partial, err := parsePartialRecord(raw)
	require.NoError(t, err)
	require.NotNil(t, partial.Findings)
	assert.Equal(t, []string{"community {and} partner engagement"}, partial.Findings.Strengths)
}

func TestParsePartialRecordNoJSON(t *testing.T) {
	for _, raw := range []string{
		"I could not find any statistics in this text.",
		"[1, 2, 3]",
		"{{{",
	} {
		_, err := parsePartialRecord(raw)
		require.Error(t, err, "raw %q", raw)

		var parseErr *models.ParseError
		assert.True(t, errors.As(err, &parseErr), "raw %q should yield a ParseError", raw)
	}
}

func TestExtractResponseTextStripsFences(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("```json\n{\"membershipData\":[]}\n```")},
			},
		}},
	}

	assert.Equal(t, `{"membershipData":[]}`, extractResponseText(resp))
}

func TestExtractResponseTextConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text(`{"collectionOverview":`), genai.Text(`{"totalItems":12}}`)},
			},
		}},
	}

	partial, err := parsePartialRecord(extractResponseText(resp))
	require.NoError(t, err)
	require.NotNil(t, partial.CollectionOverview)
	assert.Equal(t, 12.0, *partial.CollectionOverview.TotalItems)
}

func TestExtractResponseTextEmptyResponse(t *testing.T) {
	assert.Empty(t, extractResponseText(nil))
	assert.Empty(t, extractResponseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, extractResponseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	}))
}
