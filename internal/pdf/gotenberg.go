package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"indiadoors-be/internal/logger"

	"go.uber.org/zap"
)

// gotenbergRenderer converts HTML through a Gotenberg chromium endpoint, the
// headless-browser rasterizer this deployment runs alongside the API.
type gotenbergRenderer struct {
	baseURL    string
	httpClient *http.Client
}

func NewGotenbergRenderer(baseURL string) Renderer {
	if baseURL == "" {
		logger.L().Warn("PDF renderer URL is empty")
	}

	return &gotenbergRenderer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *gotenbergRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	log := logger.FromCtx(ctx).With(zap.Int("html_bytes", len(html)))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(html)); err != nil {
		return nil, err
	}

	// A4 portrait
	_ = writer.WriteField("paperWidth", "8.27")
	_ = writer.WriteField("paperHeight", "11.7")
	_ = writer.WriteField("printBackground", "true")

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/forms/chromium/convert/html", &body)
	if err != nil {
		log.Error("failed creating render request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("render request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read render response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("renderer returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBytes),
		)
		return nil, fmt.Errorf("pdf render error: %s", string(respBytes))
	}

	return respBytes, nil
}
