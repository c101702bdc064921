package transcriber

import "context"

// bytesPerSecond approximates 16-bit mono PCM at 16 kHz, used to estimate a
// duration for mock results.
const bytesPerSecond = 32000

// MockProvider returns canned text without contacting a speech API, so the
// service stays usable when no API key is configured.
type MockProvider struct{}

func (*MockProvider) Transcribe(_ context.Context, audio []byte, _ string, language string) (*Result, error) {
	if language == "" {
		language = "en"
	}
	return &Result{
		Text:            "This is a mock transcription generated without contacting a speech provider.",
		Language:        language,
		DurationSeconds: float64(len(audio)) / bytesPerSecond,
		Provider:        "mock",
	}, nil
}
