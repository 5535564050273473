package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dgallion1/syllaboss/internal/course"
)

const (
	DefaultGeminiModel        = "gemini-flash-latest"
	DefaultGeminiPollInterval = 2 * time.Second
)

// fileAPI is the subset of the Gemini client the extractor drives.
type fileAPI interface {
	UploadFile(ctx context.Context, name string, data []byte, mimeType string) (*genai.File, error)
	GetFile(ctx context.Context, name string) (*genai.File, error)
	DeleteFile(ctx context.Context, name string) error
	Generate(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	Close() error
}

// GeminiClient extracts course records by uploading the PDF through the
// Gemini Files API and asking for a JSON response that references it.
type GeminiClient struct {
	api          fileAPI
	pollInterval time.Duration
	log          *slog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, pollInterval time.Duration, log *slog.Logger) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	gm := client.GenerativeModel(model)
	gm.ResponseMIMEType = "application/json"
	return newGeminiClient(&genaiFiles{client: client, model: gm}, pollInterval, log), nil
}

func newGeminiClient(api fileAPI, pollInterval time.Duration, log *slog.Logger) *GeminiClient {
	if pollInterval <= 0 {
		pollInterval = DefaultGeminiPollInterval
	}
	return &GeminiClient{api: api, pollInterval: pollInterval, log: log}
}

// Extract uploads the PDF, waits for it to leave the PROCESSING state and
// generates the record. The uploaded file is deleted before returning.
func (g *GeminiClient) Extract(ctx context.Context, filename string, pdf []byte) (*course.Record, error) {
	file, err := g.api.UploadFile(ctx, filename, pdf, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: gemini upload: %w", ErrExtraction, err)
	}
	defer func() {
		// The request context may already be done; cleanup gets its own deadline.
		delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := g.api.DeleteFile(delCtx, file.Name); err != nil {
			g.log.Warn("gemini file cleanup failed", "file", file.Name, "error", err)
		}
	}()
	g.log.Info("gemini upload complete", "file", file.Name, "uri", file.URI)

	file, err = g.waitActive(ctx, file)
	if err != nil {
		return nil, err
	}

	resp, err := g.api.Generate(ctx,
		genai.Text(SyllabusPrompt),
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini generate: %w", ErrExtraction, err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: gemini returned no content for %s", ErrExtraction, filename)
	}
	return decodeReply(ProviderGemini, text)
}

func (g *GeminiClient) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for gemini file %s: %w", ErrExtraction, file.Name, ctx.Err())
		case <-ticker.C:
		}
		var err error
		file, err = g.api.GetFile(ctx, file.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: gemini get file: %w", ErrExtraction, err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("%w: gemini file processing failed for %s", ErrExtraction, file.Name)
	}
	return file, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}

func (g *GeminiClient) Close() error {
	return g.api.Close()
}

// genaiFiles adapts *genai.Client to fileAPI.
type genaiFiles struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func (f *genaiFiles) UploadFile(ctx context.Context, name string, data []byte, mimeType string) (*genai.File, error) {
	return f.client.UploadFile(ctx, "", bytes.NewReader(data), &genai.UploadFileOptions{
		DisplayName: name,
		MIMEType:    mimeType,
	})
}

func (f *genaiFiles) GetFile(ctx context.Context, name string) (*genai.File, error) {
	return f.client.GetFile(ctx, name)
}

func (f *genaiFiles) DeleteFile(ctx context.Context, name string) error {
	return f.client.DeleteFile(ctx, name)
}

func (f *genaiFiles) Generate(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return f.model.GenerateContent(ctx, parts...)
}

func (f *genaiFiles) Close() error {
	return f.client.Close()
}
