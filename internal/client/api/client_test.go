package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ayash13/Antivity/internal/geo"
	"github.com/Ayash13/Antivity/internal/walk"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "walker", req["username"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user":  map[string]string{"id": "u1", "username": "walker"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	user, err := c.Login(context.Background(), "walker", "pw")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "tok-123", c.Token())

	c.Logout()
	require.Empty(t, c.Token())
}

func TestDo_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"docId": "2026-03-18_09-15-00"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.token = "tok-123"

	sess, err := c.LatestSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026-03-18_09-15-00", sess.DocID)
}

func TestDo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.LatestSession(context.Background())
	require.ErrorContains(t, err, "session not found")
}

func TestDo_Unavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := c.LatestSession(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestUploadWalk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sessions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		var meta struct {
			Targets []string `json:"targets"`
			Slots   []struct {
				Index  int      `json:"index"`
				Target string   `json:"target"`
				Lat    *float64 `json:"lat"`
				Lng    *float64 `json:"lng"`
			} `json:"slots"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("meta")), &meta))
		require.Equal(t, []string{"cat", "tree"}, meta.Targets)
		require.Len(t, meta.Slots, 2)
		require.NotNil(t, meta.Slots[0].Lat)
		require.InDelta(t, 56.95, *meta.Slots[0].Lat, 1e-9)
		require.Nil(t, meta.Slots[1].Lat)

		file, header, err := r.FormFile("photo_0")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		// slot 1 has no photo
		_, _, err = r.FormFile("photo_1")
		require.Error(t, err)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"docId": "2026-03-18_09-15-00"})
	}))
	defer srv.Close()

	slots := []walk.Slot{
		{Target: "cat", Image: []byte("img"), ContentType: "image/jpeg", Geotag: &geo.Coord{Lat: 56.95, Lng: 24.1}},
		{Target: "tree"},
	}

	c := NewClient(srv.URL, time.Second)
	sess, err := c.UploadWalk(context.Background(), time.Now(), []string{"cat", "tree"}, slots)
	require.NoError(t, err)
	require.Equal(t, "2026-03-18_09-15-00", sess.DocID)
}
