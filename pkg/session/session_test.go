package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowdysden/rowdysden-backend/pkg/config"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(config.SessionConfig{Secret: "test-secret-test-secret-test-sec", CookieName: "rd_test", MaxAgeDays: 1})
	require.NoError(t, err)
	return m
}

func TestOwnerIDIssuesCookie(t *testing.T) {
	m := newManager(t)

	rec := httptest.NewRecorder()
	id, err := m.OwnerID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "rd_test", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestOwnerIDReusesCookie(t *testing.T) {
	m := newManager(t)

	first := httptest.NewRecorder()
	id, err := m.OwnerID(first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range first.Result().Cookies() {
		req.AddCookie(c)
	}
	second := httptest.NewRecorder()
	again, err := m.OwnerID(second, req)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Empty(t, second.Result().Cookies())
}

func TestOwnerIDReplacesTamperedCookie(t *testing.T) {
	m := newManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "rd_test", Value: "garbage"})
	rec := httptest.NewRecorder()
	id, err := m.OwnerID(rec, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(config.SessionConfig{})
	require.Error(t, err)
}
