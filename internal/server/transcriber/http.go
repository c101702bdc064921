package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const providerName = "deepgram"

// HTTPProvider posts audio to a Deepgram-style synchronous transcription
// endpoint and parses the JSON response.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type httpResponse struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (p *HTTPProvider) Transcribe(ctx context.Context, audio []byte, contentType, language string) (*Result, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transcriber url: %w", err)
	}
	q := u.Query()
	q.Set("smart_format", "true")
	if language != "" {
		q.Set("language", language)
	} else {
		q.Set("detect_language", "true")
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(audio))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription failed: %s; body: %s", resp.Status, string(b))
	}

	var out httpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding transcription response: %w", err)
	}
	if len(out.Results.Channels) == 0 {
		return nil, errors.New("no transcription in response")
	}

	res := &Result{
		Language:        language,
		DurationSeconds: out.Metadata.Duration,
		Provider:        providerName,
	}
	ch := out.Results.Channels[0]
	if ch.DetectedLanguage != "" {
		res.Language = ch.DetectedLanguage
	}
	if len(ch.Alternatives) > 0 {
		res.Text = ch.Alternatives[0].Transcript
	}
	return res, nil
}
