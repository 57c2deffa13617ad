package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL - адрес Bot API.
const DefaultBaseURL = "https://api.telegram.org"

// APIError - ответ Bot API с не-2xx статусом.
type APIError struct {
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api status %d: %s", e.StatusCode, e.Body)
}

// Client - минимальный клиент Bot API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
}

// NewClient создаёт клиент с адресом DefaultBaseURL.
func NewClient(botToken string, httpClient *http.Client) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, botToken, httpClient)
}

// NewClientWithBaseURL создаёт клиент для произвольного адреса API.
func NewClientWithBaseURL(baseURL, botToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, botToken: botToken}
}

type apiResponse struct {
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description,omitempty"`
	OK          bool            `json:"ok"`
}

// call отправляет payload методу Bot API и при result != nil декодирует поле result.
func (c *Client) call(ctx context.Context, method string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s encode: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("telegram %s decode: %w", method, err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram %s error: %s", method, parsed.Description)
	}
	if result != nil {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return fmt.Errorf("telegram %s decode result: %w", method, err)
		}
	}
	return nil
}

// SendMessage отправляет текст. markup может быть nil.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup any) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// EditMessageText заменяет текст отправленного сообщения.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	return c.call(ctx, "editMessageText", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}, nil)
}

// AnswerCallbackQuery закрывает индикатор загрузки на кнопке.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// GetUpdates забирает обновления начиная с offset. timeout ограничен 50 секундами, limit - 100.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]Update, error) {
	payload := map[string]any{
		"allowed_updates": []string{"message", "callback_query"},
	}
	if offset > 0 {
		payload["offset"] = offset
	}
	if timeout > 0 {
		payload["timeout"] = min(int(timeout.Round(time.Second).Seconds()), 50)
	}
	if limit > 0 {
		payload["limit"] = min(limit, 100)
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// DeleteWebhook отключает webhook, иначе getUpdates вернёт конфликт.
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	payload := map[string]any{}
	if dropPending {
		payload["drop_pending_updates"] = true
	}
	return c.call(ctx, "deleteWebhook", payload, nil)
}
