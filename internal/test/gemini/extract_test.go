package gemini_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"ecoscan-backend/internal/gemini"
)

func TestExtractText_GeminiCandidates(t *testing.T) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"the payload"}]}}]}`)
	assert.Equal(t, "the payload", gemini.ExtractText(body))
}

func TestExtractText_PriorityOrder(t *testing.T) {
	// Candidate parts win over everything else when both are present
	body := []byte(`{
		"candidates":[{"content":{"parts":[{"text":"from candidates"}]}}],
		"outputText":"from outputText",
		"result":"from result"
	}`)
	assert.Equal(t, "from candidates", gemini.ExtractText(body))

	body = []byte(`{"output_text":"snake case","prediction":"pred"}`)
	assert.Equal(t, "snake case", gemini.ExtractText(body))
}

func TestExtractText_ChatCompletionShapes(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"content":"chat content"}}]}`)
	assert.Equal(t, "chat content", gemini.ExtractText(body))

	body = []byte(`{"choices":[{"text":"completion text"}]}`)
	assert.Equal(t, "completion text", gemini.ExtractText(body))
}

func TestExtractText_FallsBackToRawBody(t *testing.T) {
	body := []byte(`{"unexpected":"shape"}`)
	assert.Equal(t, `{"unexpected":"shape"}`, gemini.ExtractText(body))

	// Not JSON at all
	body = []byte(`plain text reply`)
	assert.Equal(t, "plain text reply", gemini.ExtractText(body))
}

func TestExtractJSON_EmbeddedInProse(t *testing.T) {
	text := "Sure thing, here is the assessment you asked for:\n" +
		`{"product_name": "Bottle"}` + "\nHope that helps!"
	obj := gemini.ExtractJSON(text)
	assert.NotNil(t, obj)
	assert.Equal(t, "Bottle", obj["product_name"])
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	text := "```json\n{\"material_type\": \"glass\"}\n```"
	obj := gemini.ExtractJSON(text)
	assert.NotNil(t, obj)
	assert.Equal(t, "glass", obj["material_type"])
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	text := `prefix {"a": {"b": "c"}} suffix`
	obj := gemini.ExtractJSON(text)
	assert.NotNil(t, obj)
	assert.Equal(t, map[string]any{"b": "c"}, obj["a"])
}

func TestExtractJSON_NoBraces(t *testing.T) {
	assert.Nil(t, gemini.ExtractJSON("I could not identify the product, sorry."))
	assert.Nil(t, gemini.ExtractJSON(""))
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	assert.Nil(t, gemini.ExtractJSON(`{"broken": `+"\n}"))
	assert.Nil(t, gemini.ExtractJSON("} backwards {"))
}

func TestNormalize_AllFieldsPresent(t *testing.T) {
	result := gemini.Normalize(map[string]any{
		"product_name":            "Water Bottle",
		"material_type":           "PET plastic",
		"recyclability":           "recyclable",
		"carbon_footprint":        "low",
		"disposal_method":         "curbside recycling",
		"alternative_suggestions": "use a reusable bottle",
	})

	assert.Equal(t, "Water Bottle", result.ProductName)
	assert.Equal(t, "PET plastic", result.MaterialType)
	assert.Equal(t, "recyclable", result.Recyclability)
	assert.Equal(t, "low", result.CarbonFootprint)
	assert.Equal(t, "curbside recycling", result.DisposalMethod)
	assert.Equal(t, "use a reusable bottle", result.AlternativeSuggestions)
}

func TestNormalize_EmptyObject(t *testing.T) {
	result := gemini.Normalize(map[string]any{})

	assert.Equal(t, "unknown", result.ProductName)
	assert.Equal(t, "unknown", result.MaterialType)
	assert.Equal(t, "unknown", result.Recyclability)
	assert.Equal(t, "unknown", result.CarbonFootprint)
	assert.Equal(t, "unknown", result.DisposalMethod)
	assert.Equal(t, "No suggestions available", result.AlternativeSuggestions)
}

func TestNormalize_SynonymKeys(t *testing.T) {
	result := gemini.Normalize(map[string]any{
		"product":      "Can",
		"material":     "aluminum",
		"carbon":       "medium",
		"disposal":     "recycle bin",
		"alternatives": "buy in bulk",
	})

	assert.Equal(t, "Can", result.ProductName)
	assert.Equal(t, "aluminum", result.MaterialType)
	assert.Equal(t, "medium", result.CarbonFootprint)
	assert.Equal(t, "recycle bin", result.DisposalMethod)
	assert.Equal(t, "buy in bulk", result.AlternativeSuggestions)
}

func TestNormalize_CanonicalKeyWinsOverSynonym(t *testing.T) {
	result := gemini.Normalize(map[string]any{
		"material_type": "glass",
		"material":      "plastic",
	})
	assert.Equal(t, "glass", result.MaterialType)
}

func TestNormalize_EmptyValueFallsThrough(t *testing.T) {
	result := gemini.Normalize(map[string]any{
		"material_type": "",
		"material":      "steel",
	})
	assert.Equal(t, "steel", result.MaterialType)
}

func TestNormalize_SuggestionListSerialized(t *testing.T) {
	result := gemini.Normalize(map[string]any{
		"alternative_suggestions": []any{"reusable bag", "cardboard box"},
	})

	var decoded []string
	err := json.Unmarshal([]byte(result.AlternativeSuggestions), &decoded)
	assert.NoError(t, err)
	assert.Equal(t, []string{"reusable bag", "cardboard box"}, decoded)
}

func TestNormalize_PartialObjectFromProse(t *testing.T) {
	// A provider that wraps partial JSON in chatter still yields a fully
	// populated assessment.
	text := `Sure! Here you go: {"product_name":"Bottle","material":"PET plastic"}`
	obj := gemini.ExtractJSON(text)
	assert.NotNil(t, obj)

	result := gemini.Normalize(obj)
	assert.Equal(t, "Bottle", result.ProductName)
	assert.Equal(t, "PET plastic", result.MaterialType)
	assert.Equal(t, "unknown", result.Recyclability)
	assert.Equal(t, "unknown", result.CarbonFootprint)
	assert.Equal(t, "unknown", result.DisposalMethod)
	assert.Equal(t, "No suggestions available", result.AlternativeSuggestions)
}
