package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RelativePathRequiresBaseURL(t *testing.T) {
	c := New(time.Second)

	err := c.DoJSON(context.Background(), http.MethodGet, "/dogs/breeds", nil, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires BaseURL")
}

func TestDoJSON_EncodesRepeatedQueryAndDecodes(t *testing.T) {
	var got url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 3}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL+"/", time.Second)
	require.NoError(t, err)

	q := url.Values{}
	q.Add("breeds", "Boxer")
	q.Add("breeds", "Poodle")

	var out struct {
		Total int `json:"total"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "dogs/search", q, nil, nil, &out))

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, []string{"Boxer", "Poodle"}, got["breeds"])
}

func TestDoJSON_Non2xxIsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, time.Second)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodPost, "/dogs", nil, nil, []string{"a"}, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *HTTPError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "Unauthorized", httpErr.Body)
}

func TestNewWithBaseURL_RejectsInvalid(t *testing.T) {
	_, err := NewWithBaseURL("not a url", time.Second)
	require.Error(t, err)
}

func TestCredentialTransport_CapturesAndAttachesCookies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "fetch-access-token", Value: "tok-1", MaxAge: 3600})
			w.WriteHeader(http.StatusOK)
		case "/auth/logout":
			http.SetCookie(w, &http.Cookie{Name: "fetch-access-token", Value: "", MaxAge: -1})
			w.WriteHeader(http.StatusOK)
		default:
			ck, err := r.Cookie("fetch-access-token")
			if err != nil || ck.Value != "tok-1" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`["Boxer"]`))
		}
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, time.Second)
	require.NoError(t, err)

	cred := NewCredential(nil)
	ctx := WithCredential(context.Background(), cred)

	// sin credencial => 401
	err = c.DoJSON(context.Background(), http.MethodGet, "/dogs/breeds", nil, nil, nil, nil)
	require.Error(t, err)

	require.NoError(t, c.DoJSON(ctx, http.MethodPost, "/auth/login", nil, nil, map[string]string{"name": "a"}, nil))
	require.False(t, cred.Empty())

	// la credencial serializada sirve para una request posterior
	restored := NewCredential(cred.Snapshot())
	var breeds []string
	require.NoError(t, c.DoJSON(WithCredential(context.Background(), restored), http.MethodGet, "/dogs/breeds", nil, nil, nil, &breeds))
	assert.Equal(t, []string{"Boxer"}, breeds)

	require.NoError(t, c.DoJSON(WithCredential(context.Background(), restored), http.MethodPost, "/auth/logout", nil, nil, nil, nil))
	assert.True(t, restored.Empty())
}

func TestCredential_SnapshotDropsExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	cred := NewCredential([]Cookie{
		{Name: "b", Value: "2", Expires: now.Add(time.Minute)},
		{Name: "a", Value: "1"},
		{Name: "old", Value: "x", Expires: now.Add(-time.Minute)},
	})
	cred.now = func() time.Time { return now }

	got := cred.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}
