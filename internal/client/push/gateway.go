package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/BrasserTech/handluz/internal/client/repositories/metadata"
	"github.com/google/uuid"
)

// installIDKey is the metadata key holding this install's stable identifier.
const installIDKey = "install_id"

// Gateway registers the install against an HTTP push gateway and returns the
// token it assigns. The install is identified by a UUID generated once and
// persisted in the local metadata table, so repeated logins refresh the same
// registration instead of creating new ones.
type Gateway struct {
	endpointURL string
	repo        metadata.Repository
	httpClient  *http.Client
}

func NewGateway(endpointURL string, repo metadata.Repository) *Gateway {
	return &Gateway{
		endpointURL: endpointURL,
		repo:        repo,
		httpClient:  &http.Client{},
	}
}

type registerRequest struct {
	InstallID string `json:"install_id"`
	Platform  string `json:"platform"`
}

type registerResponse struct {
	Token string `json:"token"`
}

func (g *Gateway) installID(ctx context.Context) (string, error) {
	saved, err := g.repo.Get(ctx, installIDKey)
	if err != nil {
		return "", err
	}
	if saved != nil {
		return string(saved), nil
	}

	id := uuid.NewString()
	if err := g.repo.Set(ctx, installIDKey, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}

func (g *Gateway) Register(ctx context.Context) (string, error) {
	installID, err := g.installID(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve install id: %w", err)
	}

	body, err := json.Marshal(registerRequest{InstallID: installID, Platform: "cli"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpointURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// The gateway answers 204 when the platform cannot receive pushes.
	if resp.StatusCode == http.StatusNoContent {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("push registration failed: %s; body: %s", resp.Status, string(b))
	}

	var out registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("push registration decode: %w", err)
	}
	return out.Token, nil
}
