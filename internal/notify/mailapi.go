package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mentormatch-service/internal/config"
)

// MailClient posts email jobs to the external dispatch API. The service
// selector routes by recipient domain; some providers deliver more reliably
// to their own mailboxes.
type MailClient struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewMailClient(cfg config.MailConfig) *MailClient {
	return &MailClient{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Service    string            `json:"service"`
	TemplateID string            `json:"template_id"`
	To         string            `json:"to"`
	Params     map[string]string `json:"params"`
}

func (c *MailClient) Send(ctx context.Context, job EmailJob) error {
	body, err := json.Marshal(sendRequest{
		Service:    ServiceFor(job.To),
		TemplateID: job.TemplateID,
		To:         job.To,
		Params:     job.Params,
	})
	if err != nil {
		return fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", job.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail api returned %d for %s", resp.StatusCode, job.To)
	}
	return nil
}

// ServiceFor selects the provider-routing service for a recipient address.
func ServiceFor(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "default"
	}
	domain := strings.ToLower(email[at+1:])
	if domain == "gmail.com" || domain == "googlemail.com" {
		return "gmail"
	}
	return "default"
}
