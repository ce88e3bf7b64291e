package notification

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

const viberAPIBase = "https://chatapi.viber.com"

// ViberClient talks to the Viber REST API.
type ViberClient struct {
	baseURL string
	http    *http.Client
}

type viberSendRequest struct {
	Receiver string `json:"receiver"`
	Type     string `json:"type"`
	Text     string `json:"text"`
}

func NewViberClient() *ViberClient {
	return NewViberClientWithBase(viberAPIBase)
}

// NewViberClientWithBase is used by tests to point at a local server.
func NewViberClientWithBase(baseURL string) *ViberClient {
	return &ViberClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage posts a plaintext message to the admin user. The bot token
// rides in the X-Viber-Auth-Token header; anything but HTTP 200 is a
// failed delivery.
func (c *ViberClient) SendMessage(ctx context.Context, botToken, receiverID, text string) error {
	payload := viberSendRequest{
		Receiver: receiverID,
		Type:     "text",
		Text:     text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal viber payload: %w", err)
	}

	url := c.baseURL + "/pa/send_message"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Viber-Auth-Token", botToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("viber request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("viber returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
