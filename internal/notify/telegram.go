package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultTelegramAPI = "https://api.telegram.org"

// Telegram posts alerts through the Bot API sendMessage method.
type Telegram struct {
	APIBase string
	Token   string
	ChatID  string
	Client  *http.Client
}

func NewTelegram(apiBase, token, chatID string) *Telegram {
	if token == "" || chatID == "" {
		return nil
	}
	if apiBase == "" {
		apiBase = DefaultTelegramAPI
	}
	return &Telegram{
		APIBase: strings.TrimRight(apiBase, "/"),
		Token:   token,
		ChatID:  chatID,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramPayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) Send(ctx context.Context, title, text string) error {
	if t == nil || t.Token == "" {
		return errors.New("telegram disabled")
	}
	msg := text
	if title != "" {
		msg = title + "\n" + text
	}
	body, _ := json.Marshal(telegramPayload{ChatID: t.ChatID, Text: msg, DisableWebPagePreview: true})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.APIBase+"/bot"+t.Token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		// the URL carries the token; keep it out of the error
		return errors.New("telegram: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %w", redact(err, t.Token))
	}
	defer resp.Body.Close()

	var reply telegramReply
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&reply)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram non-2xx: %d %s", resp.StatusCode, reply.Description)
	}
	if !reply.OK {
		return fmt.Errorf("telegram rejected message: %s", reply.Description)
	}
	return nil
}

type getMeReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		Username string `json:"username"`
	} `json:"result"`
}

// Check calls getMe to validate the token without sending a message. It
// returns the bot's username.
func (t *Telegram) Check(ctx context.Context) (string, error) {
	if t == nil || t.Token == "" {
		return "", errors.New("telegram disabled")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.APIBase+"/bot"+t.Token+"/getMe", nil)
	if err != nil {
		return "", errors.New("telegram: build request")
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("telegram: %w", redact(err, t.Token))
	}
	defer resp.Body.Close()

	var reply getMeReply
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&reply)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("telegram getMe non-2xx: %d %s", resp.StatusCode, reply.Description)
	}
	if !reply.OK {
		return "", fmt.Errorf("telegram getMe rejected: %s", reply.Description)
	}
	return reply.Result.Username, nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redact strips the bot token from transport errors, which quote the URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), err: err}
}
