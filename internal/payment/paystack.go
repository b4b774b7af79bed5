package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaystackClient talks to the Paystack transaction API. Amounts cross the
// wire in subunits.
type PaystackClient struct {
	HTTP    *http.Client
	BaseURL string
	Secret  string
}

func NewPaystackClient(baseURL, secret string) *PaystackClient {
	return &PaystackClient{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: baseURL,
		Secret:  secret,
	}
}

type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyData struct {
	Status    string `json:"status"` // success, failed, abandoned
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *PaystackClient) call(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Secret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("gateway: bad response: %w", err)
	}
	if !env.Status {
		if env.Message == "" {
			env.Message = res.Status
		}
		return fmt.Errorf("gateway: %s", env.Message)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *PaystackClient) Initialize(ctx context.Context, in InitializeRequest) (*InitializeData, error) {
	var data InitializeData
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", in, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	var data VerifyData
	if err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ValidSignature checks the x-paystack-signature header: HMAC-SHA512 of the
// raw body with the secret key.
func ValidSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}
