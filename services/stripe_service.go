package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StripeConfig holds the gateway credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
}

// StripeService talks to the payment gateway over its REST API.
type StripeService struct {
	config     *StripeConfig
	httpClient *http.Client
}

var (
	stripeService *StripeService
	stripeOnce    sync.Once
)

// NewStripeService builds a gateway client with an explicit
// configuration. Production wiring uses GetStripeService.
func NewStripeService(config *StripeConfig) *StripeService {
	return &StripeService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetStripeService returns the singleton gateway client configured
// from the environment.
func GetStripeService() *StripeService {
	stripeOnce.Do(func() {
		baseURL := os.Getenv("STRIPE_BASE_URL")
		if baseURL == "" {
			baseURL = "https://api.stripe.com"
		}
		stripeService = &StripeService{
			config: &StripeConfig{
				SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
				WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
				BaseURL:       baseURL,
			},
			httpClient: &http.Client{
				Timeout: 30 * time.Second,
			},
		}
	})
	return stripeService
}

// ValidateConfig reports missing gateway credentials.
func (ss *StripeService) ValidateConfig() error {
	if ss.config.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}
	if ss.config.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is not set")
	}
	if ss.config.BaseURL == "" {
		return fmt.Errorf("STRIPE_BASE_URL is not set")
	}
	return nil
}

// PaymentIntent is the gateway-side record of a pending charge
// attempt.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreatePaymentIntent creates an intent for the given amount in minor
// units (cents).
func (ss *StripeService) CreatePaymentIntent(amountMinor int64, currency string) (*PaymentIntent, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents", ss.config.BaseURL)

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("metadata[integration_check]", "accept_a_payment")

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(ss.config.SecretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("error decoding gateway response: %w", err)
	}
	return &intent, nil
}

// WebhookEvent is the inbound confirmation payload. Only the event
// type and the intent id are consumed.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhookEvent decodes a raw webhook body.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("invalid event payload: missing type")
	}
	return &event, nil
}

// VerifyWebhookSignature checks the shared-secret signature header of
// shape "t=<unix>,v1=<hex hmac>" where the hmac is computed over
// "<t>.<payload>".
func (ss *StripeService) VerifyWebhookSignature(payload []byte, header string) bool {
	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signature = kv[1]
		}
	}
	if timestamp == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(ss.config.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignWebhookPayload produces a header the verifier accepts. Used by
// tests and local tooling.
func (ss *StripeService) SignWebhookPayload(payload []byte, timestamp time.Time) string {
	ts := strconv.FormatInt(timestamp.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(ss.config.WebhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
