package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type MercadoPagoConfig struct {
	AccessToken string
	// BaseURL defaults to the production API when empty.
	BaseURL string
	Timeout time.Duration
}

type mercadoPagoProvider struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

func NewMercadoPagoProvider(cfg MercadoPagoConfig) (PaymentProvider, error) {
	if cfg.AccessToken == "" {
		return nil, errors.New("invalid MercadoPago configuration: access token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &mercadoPagoProvider{
		accessToken: cfg.AccessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type mpPreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type mpPreferencePayer struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
}

type mpBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type mpPreferenceRequest struct {
	Items             []mpPreferenceItem `json:"items"`
	Payer             mpPreferencePayer  `json:"payer"`
	ExternalReference string             `json:"external_reference"`
	BackURLs          *mpBackURLs        `json:"back_urls,omitempty"`
	AutoReturn        string             `json:"auto_return,omitempty"`
	NotificationURL   string             `json:"notification_url,omitempty"`
}

type mpPreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type mpPaymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

func (p *mercadoPagoProvider) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	payerEmail := req.PayerEmail
	if payerEmail == "" {
		payerEmail = "noemail@example.com"
	}

	body := mpPreferenceRequest{
		Items: []mpPreferenceItem{{
			Title:      req.Title,
			Quantity:   1,
			CurrencyID: req.Currency,
			UnitPrice:  req.Amount,
		}},
		Payer: mpPreferencePayer{
			Email:   payerEmail,
			Name:    req.PayerName,
			Surname: req.PayerSurname,
		},
		ExternalReference: req.ExternalReference,
		NotificationURL:   req.NotificationURL,
	}
	// auto_return requires back_urls.success to be set.
	if req.BackURL != "" {
		body.BackURLs = &mpBackURLs{Success: req.BackURL, Failure: req.BackURL, Pending: req.BackURL}
		body.AutoReturn = "approved"
	}

	var resp mpPreferenceResponse
	if err := p.doJSON(ctx, http.MethodPost, "/checkout/preferences", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || (resp.InitPoint == "" && resp.SandboxInitPoint == "") {
		return nil, fmt.Errorf("mercadopago preference response missing fields (id=%q)", resp.ID)
	}

	return &Preference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

func (p *mercadoPagoProvider) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	var resp mpPaymentResponse
	if err := p.doJSON(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}
	return &PaymentInfo{
		ID:                resp.ID.String(),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func (p *mercadoPagoProvider) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode mercadopago request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build mercadopago request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read mercadopago response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode mercadopago response: %w", err)
	}
	return nil
}
