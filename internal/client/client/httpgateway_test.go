package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/campuslink/internal/client/models"
)

// ---- helpers ----

type memSecrets struct {
	secret   string
	saveErr  error
	loadErr  error
	cleared  bool
	loadCall int
}

func (m *memSecrets) LoadSecret(context.Context) (string, error) {
	m.loadCall++
	return m.secret, m.loadErr
}

func (m *memSecrets) SaveSecret(_ context.Context, s string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.secret = s
	return nil
}

func (m *memSecrets) ClearSecret(context.Context) error {
	m.cleared = true
	m.secret = ""
	return nil
}

type recorded struct {
	method  string
	path    string
	auth    string
	project string
	body    map[string]any
}

func newTestGateway(t *testing.T, secrets SecretStore, h func(w http.ResponseWriter, r *http.Request)) (*HTTPGateway, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method:  r.Method,
			path:    r.URL.Path,
			auth:    r.Header.Get("Authorization"),
			project: r.Header.Get(ProjectHeaderName),
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	g, err := NewHTTPGateway(HTTPGatewayConfig{URL: srv.URL + "/", ProjectID: "proj", Secrets: secrets})
	require.NoError(t, err)
	return g, &calls
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ---- TESTS ----

func TestNewHTTPGateway_RequiresURL(t *testing.T) {
	_, err := NewHTTPGateway(HTTPGatewayConfig{})
	require.Error(t, err)
}

func TestCreateIdentity_Success(t *testing.T) {
	g, calls := newTestGateway(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"$id": "u-1", "email": "a@b.com", "name": "Jane", "$createdAt": "2026-10-01T00:00:00Z",
		})
	})

	id, err := g.CreateIdentity(context.Background(), "a@b.com", "longpass1", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, "Jane", id.Name)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodPost, c.method)
	assert.Equal(t, "/v1/account", c.path)
	assert.Equal(t, "proj", c.project)
	assert.Empty(t, c.auth)
	assert.Equal(t, "a@b.com", c.body["email"])
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusBadRequest, ErrInvalidInput},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			g, _ := newTestGateway(t, nil, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.code, map[string]string{"message": "boom"})
			})
			_, err := g.CreateIdentity(context.Background(), "a@b.com", "longpass1", "Jane")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestUnreachableGateway_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g, err := NewHTTPGateway(HTTPGatewayConfig{URL: url})
	require.NoError(t, err)

	_, err = g.CreateSession(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateSession_StoresAndSendsSecret(t *testing.T) {
	secrets := &memSecrets{}
	g, calls := newTestGateway(t, secrets, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/account/sessions/email":
			writeJSON(w, http.StatusCreated, map[string]string{"$id": "s-1", "userId": "u-1", "secret": "tok"})
		case "/v1/account":
			writeJSON(w, http.StatusOK, map[string]string{"$id": "u-1", "email": "a@b.com"})
		}
	})
	ctx := context.Background()

	tok, err := g.CreateSession(ctx, "a@b.com", "longpass1")
	require.NoError(t, err)
	assert.Equal(t, SessionToken{ID: "s-1", UserID: "u-1", Secret: "tok"}, tok)
	assert.Equal(t, "tok", secrets.secret)

	id, err := g.GetCurrentIdentity(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, "Bearer tok", (*calls)[1].auth)
}

func TestCreateSession_SecretPersistFailure(t *testing.T) {
	secrets := &memSecrets{saveErr: errors.New("disk full")}
	g, calls := newTestGateway(t, secrets, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/account" {
			writeJSON(w, http.StatusOK, map[string]string{"$id": "u-1", "email": "a@b.com"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"$id": "s-1", "userId": "u-1", "secret": "tok"})
	})

	ctx := context.Background()

	_, err := g.CreateSession(ctx, "a@b.com", "longpass1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist session secret")

	id, err := g.GetCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Len(t, *calls, 1)
}

func TestGetCurrentIdentity_NoSecret_SkipsNetwork(t *testing.T) {
	g, calls := newTestGateway(t, &memSecrets{}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	})

	id, err := g.GetCurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Empty(t, *calls)
}

func TestGetCurrentIdentity_RestoresPersistedSecret(t *testing.T) {
	secrets := &memSecrets{secret: "persisted"}
	g, calls := newTestGateway(t, secrets, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"$id": "u-9", "email": "x@y.z"})
	})
	ctx := context.Background()

	id, err := g.GetCurrentIdentity(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "Bearer persisted", (*calls)[0].auth)

	_, err = g.GetCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, secrets.loadCall, "secret is loaded once")
}

func TestGetCurrentIdentity_ExpiredSession_IsAbsent(t *testing.T) {
	g, _ := newTestGateway(t, &memSecrets{secret: "stale"}, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "session expired"})
	})

	id, err := g.GetCurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestGetCurrentIdentity_ServerError_Propagates(t *testing.T) {
	g, _ := newTestGateway(t, &memSecrets{secret: "tok"}, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{})
	})

	_, err := g.GetCurrentIdentity(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDeleteSession_ClearsLocallyEvenOnFailure(t *testing.T) {
	secrets := &memSecrets{secret: "tok"}
	g, calls := newTestGateway(t, secrets, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{})
	})
	ctx := context.Background()

	err := g.DeleteSession(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, secrets.cleared)
	assert.Equal(t, http.MethodDelete, (*calls)[0].method)
	assert.Equal(t, "/v1/account/sessions/current", (*calls)[0].path)

	id, err := g.GetCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Len(t, *calls, 1)
}

func TestGetProfile_DecodesDocumentAndHandlesMissing(t *testing.T) {
	g, _ := newTestGateway(t, &memSecrets{secret: "tok"}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/profiles/missing" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "document not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"$id": "u-1", "$collectionId": "profiles", "fullName": "Jane", "interests": []string{"Art"},
		})
	})
	ctx := context.Background()

	p, err := g.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, "Jane", p.FullName)
	assert.Equal(t, []string{"Art"}, p.Interests)

	p, err = g.GetProfile(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpsertProfile_SendsOnlySetFields(t *testing.T) {
	g, calls := newTestGateway(t, &memSecrets{secret: "tok"}, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"$id": "u-1", "interests": []string{"Art"}, "profileComplete": true,
		})
	})

	interests := []string{"Art"}
	done := true
	p, err := g.UpsertProfile(context.Background(), "u-1", models.ProfileUpdate{Interests: &interests, ProfileComplete: &done})
	require.NoError(t, err)
	assert.True(t, p.ProfileComplete)

	c := (*calls)[0]
	assert.Equal(t, http.MethodPatch, c.method)
	assert.Equal(t, "/v1/profiles/u-1", c.path)
	assert.Len(t, c.body, 2)
	assert.Equal(t, true, c.body["profileComplete"])
}
