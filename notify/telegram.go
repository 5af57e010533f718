package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TelegramClient sends run artifacts to a Telegram chat. Construction
// fails when the bot token or chat id is absent; callers treat that as
// "notifications disabled" rather than an error.
type TelegramClient struct {
	baseURL string
	token   string
	chatID  string
	http    *http.Client
	retries int
	backoff time.Duration
}

var ErrTelegramNotConfigured = errors.New("telegram bot token or chat id not set")

func NewTelegramClient() (*TelegramClient, error) {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	chatID := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if token == "" || chatID == "" {
		return nil, ErrTelegramNotConfigured
	}
	baseURL := strings.TrimSpace(os.Getenv("TELEGRAM_API_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &TelegramClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: 60 * time.Second},
		retries: 3,
		backoff: 2 * time.Second,
	}, nil
}

// SendMessage posts a plain-text message to the configured chat.
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	body := func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		_ = w.WriteField("chat_id", c.chatID)
		_ = w.WriteField("text", text)
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}
	return c.post(ctx, "sendMessage", body)
}

// SendDocument uploads a file to the configured chat with an optional
// caption.
func (c *TelegramClient) SendDocument(ctx context.Context, path, caption string) error {
	body := func() (io.Reader, string, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		_ = w.WriteField("chat_id", c.chatID)
		if caption != "" {
			_ = w.WriteField("caption", caption)
		}
		part, err := w.CreateFormFile("document", filepath.Base(path))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", err
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}
	return c.post(ctx, "sendDocument", body)
}

// post retries transient failures with exponential backoff. The body is
// rebuilt per attempt so a half-consumed reader never gets resent.
func (c *TelegramClient) post(ctx context.Context, method string, body func() (io.Reader, string, error)) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		reader, contentType, err := body()
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("telegram api error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return lastErr
		}
	}
	return fmt.Errorf("telegram %s failed after %d attempts: %w", method, c.retries+1, lastErr)
}
