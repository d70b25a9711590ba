package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/client/models"
	"github.com/dmitrijs2005/campuslink/internal/common"
)

// ProjectHeaderName selects the gateway project on every request.
const ProjectHeaderName = "X-Project-ID"

// HTTPGatewayConfig holds HTTPGateway settings.
type HTTPGatewayConfig struct {
	URL        string
	ProjectID  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Secrets    SecretStore
}

// HTTPGateway is the REST implementation of Gateway.
type HTTPGateway struct {
	baseURL    string
	projectID  string
	httpClient *http.Client
	secrets    SecretStore

	mu     sync.RWMutex
	secret string
	loaded bool
}

// NewHTTPGateway validates cfg and returns a ready gateway client.
func NewHTTPGateway(cfg HTTPGatewayConfig) (*HTTPGateway, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("gateway URL is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("gateway URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPGateway{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		projectID:  cfg.ProjectID,
		httpClient: httpClient,
		secrets:    cfg.Secrets,
	}, nil
}

type identityDTO struct {
	ID        string    `json:"$id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"$createdAt"`
}

func (d identityDTO) toModel() models.Identity {
	return models.Identity{ID: d.ID, Email: d.Email, Name: d.Name, CreatedAt: d.CreatedAt}
}

type sessionDTO struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

type errorDTO struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (g *HTTPGateway) CreateIdentity(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	body := map[string]string{"email": email, "password": password, "name": displayName}

	var dto identityDTO
	if err := g.call(ctx, http.MethodPost, "/v1/account", body, false, &dto); err != nil {
		return models.Identity{}, err
	}
	return dto.toModel(), nil
}

func (g *HTTPGateway) CreateSession(ctx context.Context, email, password string) (SessionToken, error) {
	body := map[string]string{"email": email, "password": password}

	var dto sessionDTO
	if err := g.call(ctx, http.MethodPost, "/v1/account/sessions/email", body, false, &dto); err != nil {
		return SessionToken{}, err
	}
	if dto.Secret == "" {
		return SessionToken{}, fmt.Errorf("create session: empty secret in response")
	}

	if g.secrets != nil {
		if err := g.secrets.SaveSecret(ctx, dto.Secret); err != nil {
			g.setSecret("")
			return SessionToken{}, fmt.Errorf("persist session secret: %w", err)
		}
	}
	g.setSecret(dto.Secret)

	return SessionToken{ID: dto.ID, UserID: dto.UserID, Secret: dto.Secret}, nil
}

func (g *HTTPGateway) GetCurrentIdentity(ctx context.Context) (*models.Identity, error) {
	secret, err := g.currentSecret(ctx)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, nil
	}

	var dto identityDTO
	err = g.call(ctx, http.MethodGet, "/v1/account", nil, true, &dto)
	if errors.Is(err, ErrUnauthorized) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := dto.toModel()
	return &id, nil
}

// DeleteSession forgets the local secret even when the remote call fails.
func (g *HTTPGateway) DeleteSession(ctx context.Context) error {
	secret, loadErr := g.currentSecret(ctx)

	g.setSecret("")
	var clearErr error
	if g.secrets != nil {
		clearErr = g.secrets.ClearSecret(ctx)
	}

	if loadErr != nil {
		return errors.Join(loadErr, clearErr)
	}
	if secret == "" {
		return clearErr
	}

	err := g.callWithSecret(ctx, http.MethodDelete, "/v1/account/sessions/current", nil, secret, nil)
	return errors.Join(err, clearErr)
}

func (g *HTTPGateway) GetProfile(ctx context.Context, identityID string) (*models.Profile, error) {
	var raw json.RawMessage
	err := g.call(ctx, http.MethodGet, "/v1/profiles/"+url.PathEscape(identityID), nil, true, &raw)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := models.DecodeProfile(raw)
	if err != nil {
		return nil, err
	}
	if p.UserID == "" {
		p.UserID = identityID
	}
	return &p, nil
}

func (g *HTTPGateway) UpsertProfile(ctx context.Context, identityID string, update models.ProfileUpdate) (models.Profile, error) {
	var raw json.RawMessage
	if err := g.call(ctx, http.MethodPatch, "/v1/profiles/"+url.PathEscape(identityID), update, true, &raw); err != nil {
		return models.Profile{}, err
	}

	p, err := models.DecodeProfile(raw)
	if err != nil {
		return models.Profile{}, err
	}
	if p.UserID == "" {
		p.UserID = identityID
	}
	return p, nil
}

func (g *HTTPGateway) setSecret(secret string) {
	g.mu.Lock()
	g.secret = secret
	g.loaded = true
	g.mu.Unlock()
}

// currentSecret returns the in-memory secret, lazily restoring it from the
// SecretStore on first use.
func (g *HTTPGateway) currentSecret(ctx context.Context) (string, error) {
	g.mu.RLock()
	secret, loaded := g.secret, g.loaded
	g.mu.RUnlock()
	if loaded || g.secrets == nil {
		return secret, nil
	}

	stored, err := g.secrets.LoadSecret(ctx)
	if err != nil {
		return "", fmt.Errorf("load session secret: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.loaded {
		g.secret = stored
		g.loaded = true
	}
	return g.secret, nil
}

func (g *HTTPGateway) call(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	secret := ""
	if authenticated {
		var err error
		if secret, err = g.currentSecret(ctx); err != nil {
			return err
		}
	}
	return g.callWithSecret(ctx, method, path, body, secret, out)
}

func (g *HTTPGateway) callWithSecret(ctx context.Context, method, path string, body any, secret string, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.projectID != "" {
		req.Header.Set(ProjectHeaderName, g.projectID)
	}
	if secret != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+secret)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		return mapStatus(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(code int, body []byte) error {
	var e errorDTO
	_ = json.Unmarshal(body, &e)
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case code == http.StatusTooManyRequests, code >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("gateway error %d: %s", code, msg)
	}
}
