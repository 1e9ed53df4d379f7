package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ResendConfig Resend 客户端配置
type ResendConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type resendClient struct {
	cfg        ResendConfig
	httpClient *http.Client
}

// NewResend 创建 Resend 实现。批处理内不做重试，失败交由下一个整点自然重试。
func NewResend(cfg ResendConfig) (Mailer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("resend: api key required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &resendClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// --- Resend /emails 接口报文 ---

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// HTTPError Resend 返回的非 2xx 响应
type HTTPError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "resend: <nil error>"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "<empty body>"
	}
	return fmt.Sprintf("resend http %d: %s", e.StatusCode, msg)
}

func (c *resendClient) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.From) == "" {
		return fmt.Errorf("resend: From required")
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("resend: To required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("resend: Subject required")
	}
	if strings.TrimSpace(msg.HTML) == "" && strings.TrimSpace(msg.Text) == "" {
		return fmt.Errorf("resend: HTML or Text content required")
	}

	wire := sendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(wire); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/emails", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode, Message: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Message != "" {
			he.Name = er.Name
			he.Message = er.Message
		}
		return he
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// 2xx 但响应不可解析也视为成功，投递已被接受
		return nil
	}
	return nil
}
