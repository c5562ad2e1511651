package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/auth"
	"github.com/daap14/stockroom/internal/product"
)

// --- Mock product store ---

type mockProductStore struct {
	items map[uuid.UUID]product.Product
	order []uuid.UUID
	err   error // returned by every call when set
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{items: make(map[uuid.UUID]product.Product)}
}

func (m *mockProductStore) WithinTx(_ context.Context, fn func(repo product.Repository) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m)
}

func (m *mockProductStore) Create(_ context.Context, p *product.Product) error {
	if m.err != nil {
		return m.err
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = *p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *mockProductStore) GetByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.items[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductStore) List(_ context.Context) ([]product.Product, error) {
	return m.filter(func(product.Product) bool { return true })
}

func (m *mockProductStore) FindBy(_ context.Context, field product.Field, value string) ([]product.Product, error) {
	if field != product.FieldCategory {
		return nil, product.ErrUnknownField
	}
	return m.filter(func(p product.Product) bool { return p.Category == value })
}

func (m *mockProductStore) FindByContaining(_ context.Context, field product.Field, fragment string) ([]product.Product, error) {
	if field != product.FieldName {
		return nil, product.ErrUnknownField
	}
	return m.filter(func(p product.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(fragment))
	})
}

func (m *mockProductStore) Save(_ context.Context, p *product.Product) error {
	if m.err != nil {
		return m.err
	}
	existing, ok := m.items[p.ID]
	if !ok {
		return product.ErrNotFound
	}
	p.CreatedBy = existing.CreatedBy
	p.UpdatedAt = time.Now().UTC()
	m.items[p.ID] = *p
	return nil
}

func (m *mockProductStore) Delete(_ context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[id]; !ok {
		return product.ErrNotFound
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductStore) Count(_ context.Context) (int, error) {
	return len(m.items), m.err
}

func (m *mockProductStore) filter(keep func(product.Product) bool) ([]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []product.Product{}
	for _, id := range m.order {
		if p := m.items[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

var errStoreDown = errors.New("store is down")

// --- Request helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, httptest.NewRecorder()
}

func as(req *http.Request, username string, roles ...string) *http.Request {
	id := auth.NewIdentity("sub-"+username, username, username+"@example.com", "First", "Last", roles)
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	apiErr, ok := parseEnvelope(t, w)["error"].(map[string]any)
	require.True(t, ok, "expected error envelope: %s", w.Body.String())
	return apiErr["code"].(string)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
