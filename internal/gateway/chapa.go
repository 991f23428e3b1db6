package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VerificationStatus string

const (
	VerificationSuccess VerificationStatus = "success"
	VerificationFailed  VerificationStatus = "failed"
	VerificationPending VerificationStatus = "pending"
)

type InitializeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type InitializeResult struct {
	TxRef       string
	CheckoutURL string
}

type VerifyResult struct {
	Status VerificationStatus
	Raw    json.RawMessage
}

// Client is the outbound payment-provider boundary. Implementations must not
// touch persisted state.
type Client interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}

type ChapaClient struct {
	baseURL     string
	secretKey   string
	callbackURL string
	http        *http.Client
}

func NewChapaClient(baseURL, secretKey, callbackURL string, timeout time.Duration) *ChapaClient {
	return &ChapaClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   secretKey,
		callbackURL: callbackURL,
		http:        &http.Client{Timeout: timeout},
	}
}

type initializePayload struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	PhoneNumber   string        `json:"phone_number"`
	TxRef         string        `json:"tx_ref"`
	CallbackURL   string        `json:"callback_url"`
	Customization customization `json:"customization"`
}

type customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type initializeResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// newTxRef mints the correlation token sent to the provider: 128 random bits
// as 32 hex chars.
func newTxRef() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (c *ChapaClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	txRef := newTxRef()

	payload := initializePayload{
		Amount:      req.Amount.String(),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       txRef,
		CallbackURL: c.callbackURL,
		Customization: customization{
			Title:       "Booking Payment",
			Description: "Payment for booking",
		},
	}

	raw, err := c.post(ctx, c.baseURL+"/v1/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var resp initializeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode initialize response: %v", ErrUnreachable, err)
	}

	if resp.Status != "success" {
		return nil, &InitializationError{ProviderStatus: resp.Status, Detail: raw}
	}
	// A success envelope without a checkout URL is still a failed
	// initialization: there is nowhere to send the user.
	if resp.Data.CheckoutURL == "" {
		return nil, &InitializationError{ProviderStatus: resp.Status, Detail: raw}
	}

	return &InitializeResult{TxRef: txRef, CheckoutURL: resp.Data.CheckoutURL}, nil
}

func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read verify response: %v", ErrUnreachable, err)
	}

	var resp verifyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode verify response: %v", ErrUnreachable, err)
	}

	// A non-success payment state is a valid result, never an error.
	return &VerifyResult{Status: mapVerificationStatus(resp), Raw: raw}, nil
}

func mapVerificationStatus(resp verifyResponse) VerificationStatus {
	// Only data.status reflects the state of the payment itself. The envelope
	// status says the lookup went through, so an envelope-only "success" with
	// no payment state stays pending.
	switch resp.Data.Status {
	case "success":
		return VerificationSuccess
	case "failed":
		return VerificationFailed
	default:
		// Anything the provider reports that is neither success nor failed
		// (including its own "pending") means no state change yet.
		return VerificationPending
	}
}

func (c *ChapaClient) post(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	return raw, nil
}
