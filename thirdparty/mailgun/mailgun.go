package mailgun

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/model"
)

const (
	defaultBaseURL = "https://api.mailgun.net"
	// maxErrorBody caps how much of a rejected response is kept in the error.
	maxErrorBody = 2048
)

// Client sends submission notifications through the Mailgun messages API.
type Client struct {
	apiKey     string
	domain     string
	baseURL    string
	senderName string
	adminEmail string
	httpClient *http.Client
}

func NewClient(cfg config.MailConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	senderName := cfg.SenderName
	if senderName == "" {
		senderName = "Website Contact Form"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		domain:     cfg.Domain,
		baseURL:    baseURL,
		senderName: senderName,
		adminEmail: cfg.AdminEmail,
		httpClient: httpClient,
	}
}

// Notify emails the admin address about sub. The submitter's email, when
// present, becomes the Reply-To.
func (c *Client) Notify(ctx context.Context, sub *model.SubmissionEntity) error {
	form := url.Values{}
	form.Set("from", fmt.Sprintf("%s <noreply@%s>", c.senderName, c.domain))
	form.Set("to", c.adminEmail)
	form.Set("subject", Subject(sub))
	form.Set("text", TextBody(sub))
	form.Set("html", HTMLBody(sub))
	if email := sub.EmailValue(); email != "" {
		form.Set("h:Reply-To", email)
	}

	endpoint := fmt.Sprintf("%s/v3/%s/messages", c.baseURL, url.PathEscape(c.domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailgun request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("mailgun returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Subject uses the stored name, which is already HTML-escaped.
func Subject(sub *model.SubmissionEntity) string {
	return fmt.Sprintf("New %s request from %s", sub.ServiceType, sub.Name)
}

type field struct {
	label string
	value string
}

func fields(sub *model.SubmissionEntity) []field {
	orNone := func(s string) string {
		if s == "" {
			return "Not provided"
		}
		return s
	}
	return []field{
		{"Name", sub.Name},
		{"Email", orNone(sub.EmailValue())},
		{"Phone", orNone(sub.PhoneValue())},
		{"Service", sub.ServiceType},
		{"Message", sub.Message},
		{"Submission ID", sub.ID},
		{"Received", sub.CreatedAt.UTC().Format(time.RFC3339)},
	}
}

// TextBody renders the plain-text part. Name, phone and message go out in
// their stored, escaped form and are never escaped again.
func TextBody(sub *model.SubmissionEntity) string {
	var b strings.Builder
	b.WriteString("A new contact form submission was received.\n\n")
	for _, f := range fields(sub) {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return b.String()
}

// HTMLBody renders the HTML part. Stored values are already escaped; only the
// email, which is stored verbatim, is escaped here.
func HTMLBody(sub *model.SubmissionEntity) string {
	var b strings.Builder
	b.WriteString("<h2>New contact form submission</h2>\n<table>\n")
	for _, f := range fields(sub) {
		value := f.value
		if f.label == "Email" || f.label == "Service" {
			value = html.EscapeString(value)
		}
		if f.label == "Message" {
			value = strings.ReplaceAll(value, "\n", "<br>")
		}
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>\n", f.label, value)
	}
	b.WriteString("</table>\n")
	return b.String()
}
