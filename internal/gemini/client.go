// Package gemini is the gateway to the multimodal classification provider.
// It speaks two wire shapes: a generic bearer-authenticated endpoint and the
// Google Gemini generateContent API, and recovers a structured assessment
// from whatever text the provider sends back.
package gemini

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecoscan-backend/internal/apierr"
)

// Prompt sent with every classification request. The pipeline depends on
// providers roughly honoring it, but never assumes they do.
const visionPrompt = `Analyze the product in this image and return ONLY a valid JSON object with these exact keys:
{
  "product_name": "name of the product",
  "material_type": "type of material (e.g., plastic, metal, paper)",
  "recyclability": "recyclable/non-recyclable/partially recyclable",
  "carbon_footprint": "low/medium/high",
  "disposal_method": "how to properly dispose of this item",
  "alternative_suggestions": "eco-friendly alternatives or tips"
}

If any field is unknown, set it to "unknown". Return ONLY the JSON object, no other text.`

type Client struct {
	endpoint   string // optional custom endpoint; selects the bearer-auth shape
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// customRequest is the body for the custom-endpoint shape. The endpoint is
// expected to resolve the image through its own convention, so no image
// bytes are embedded.
type customRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// generateContentRequest is the body for the Google generateContent shape.
type generateContentRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

func NewClient(endpoint, baseURL, apiKey, model string) *Client {
	return &Client{
		endpoint: endpoint,
		baseURL:  baseURL,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// AnalyzeImage classifies the product at imageURL and returns the normalized
// six-field assessment. Failures are reported as tagged API errors: missing
// credentials before any network call, upstream HTTP failures with the
// provider status and body, and unparseable output with the raw text.
func (c *Client) AnalyzeImage(imageURL string) (*Analysis, error) {
	if c.apiKey == "" {
		return nil, apierr.Config("Gemini API key not configured (GEMINI_API_KEY missing)")
	}

	var req *http.Request
	var err error
	if c.endpoint != "" {
		req, err = c.newCustomRequest()
	} else {
		req, err = c.newGenerateContentRequest(imageURL)
	}
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierr.Upstream(resp.StatusCode, string(body))
	}

	text := ExtractText(body)
	parsed := ExtractJSON(text)
	if parsed == nil {
		return nil, apierr.Parse(text)
	}

	result := Normalize(parsed)
	return &result, nil
}

func (c *Client) newCustomRequest() (*http.Request, error) {
	jsonData, err := json.Marshal(customRequest{Model: c.model, Input: visionPrompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

func (c *Client) newGenerateContentRequest(imageURL string) (*http.Request, error) {
	imageData, err := c.fetchImageBase64(imageURL)
	if err != nil {
		return nil, err
	}

	body := generateContentRequest{
		Contents: []generateContent{{
			Parts: []contentPart{
				{Text: visionPrompt},
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: imageData}},
			},
		}},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	requestURL := strings.TrimSuffix(c.baseURL, "/") + "/models/" + c.model +
		":generateContent?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequest("POST", requestURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) fetchImageBase64(imageURL string) (string, error) {
	resp, err := c.httpClient.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apierr.Upstream(resp.StatusCode, string(data))
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
