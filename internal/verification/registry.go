package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const proofStatusSuccess = "success"

// RegistryClient talks to the remote verification registry. Registration is
// a one-shot POST; proofs are polled with GET until the registry reports
// success.
type RegistryClient struct {
	baseURL string
	client  *http.Client
}

// NewRegistryClient builds a registry client for the given base URL.
func NewRegistryClient(baseURL string) *RegistryClient {
	return &RegistryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Register announces a fresh verification session to the registry. Any 2xx
// response counts as success.
func (r *RegistryClient) Register(ctx context.Context, sessionID string) error {
	url := fmt.Sprintf("%s/user/%s", r.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	return nil
}

type proofResponse struct {
	Status         string `json:"status"`
	Nationality    string `json:"nationality"`
	PassportNumber string `json:"passport_number"`
}

// Proof polls the registry for proof-of-verification. It returns the
// identity and true once the registry reports success. A non-2xx status or
// an unparsable body means "not yet" and is not an error; only transport
// failures are returned, and callers treat those as retryable too.
func (r *RegistryClient) Proof(ctx context.Context, sessionID string) (Identity, bool, error) {
	url := fmt.Sprintf("%s/user/%s/proof", r.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Identity{}, false, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return Identity{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Identity{}, false, nil
	}

	var payload proofResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, false, nil
	}
	if payload.Status != proofStatusSuccess {
		return Identity{}, false, nil
	}
	return Identity{Nationality: payload.Nationality, PassportNumber: payload.PassportNumber}, true, nil
}
