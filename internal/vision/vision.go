// Package vision asks the Gemini API to guess item fields from a photo.
// The collaborator is best-effort: a transport or API failure returns
// model.ErrAnalysis and the caller leaves its form fields untouched, while
// a response the model garbled into non-JSON yields a fixed fallback guess.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yctseng/itemlist/internal/model"
)

// Model is the Gemini model used for analysis.
const Model = "gemini-3-flash-preview"

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// prompt instructs the model to answer in Traditional Chinese, matching
// the language the rest of the app's placeholder values use.
const prompt = "請分析這張圖片中的物品，並以 JSON 格式提供詳細資訊。" +
	"預測物品名稱、可能的尺寸（例如 '30x20x10cm' 或 '大/中/小'）、標準分類，" +
	"以及合理的存放位置（例如 '廚房抽屜'、'車庫層架'）。請務必使用繁體中文回答所有欄位。"

// Result is the best-effort field guess for a photographed item.
type Result struct {
	Name              string `json:"name"`
	Size              string `json:"size"`
	Category          string `json:"category"`
	SuggestedLocation string `json:"suggestedLocation"`
}

// fallback is returned when the model answers but its text is not valid
// JSON. Generic on purpose: a vague guess beats a garbled one.
var fallback = Result{
	Name:              "未知物品",
	Size:              "未知",
	Category:          model.DefaultCategory,
	SuggestedLocation: "主儲藏室",
}

// Client calls the Gemini generateContent endpoint. Exactly one of apiKey
// or account must be set.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	account    *ServiceAccount
}

// NewClient returns a client authenticating with a plain API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// NewServiceAccountClient returns a client authenticating with a Google
// service-account key (see token.go).
func NewServiceAccountClient(account *ServiceAccount) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		account:    account,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Request/response shapes for the generateContent call. Only the fields
// this client touches are declared.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	InlineData *inlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"name": {"type": "STRING"},
		"size": {"type": "STRING"},
		"category": {"type": "STRING"},
		"suggestedLocation": {"type": "STRING"}
	},
	"required": ["name", "size", "category", "suggestedLocation"]
}`)

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// Analyze sends the photo (a JPEG data URI or bare base64 string) and
// returns the model's field guess. Cancellable via ctx; never touches the
// record collection.
func (c *Client) Analyze(ctx context.Context, photo string) (Result, error) {
	// Strip the data URI prefix, the API wants bare base64.
	data := photo
	if i := strings.IndexByte(photo, ','); i >= 0 {
		data = photo[i+1:]
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: data}},
				{Text: prompt},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("%w: encoding request: %v", model.ErrAnalysis, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: building request: %v", model.ErrAnalysis, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.account != nil {
		token, err := c.account.Token(ctx, c.httpClient)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", model.ErrAnalysis, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", model.ErrAnalysis, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: reading response: %v", model.ErrAnalysis, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: API returned %s", model.ErrAnalysis, resp.Status)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return Result{}, fmt.Errorf("%w: decoding response: %v", model.ErrAnalysis, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return Result{}, fmt.Errorf("%w: empty response", model.ErrAnalysis)
	}

	var result Result
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &result); err != nil {
		return fallback, nil
	}
	return result, nil
}
