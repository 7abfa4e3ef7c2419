package twitch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeHelix serves a minimal token endpoint and Helix API
type fakeHelix struct {
	t        *testing.T
	global   []helixEmote
	users    map[string]helixUser
	channels map[string][]helixEmote

	// rejectToken makes the token endpoint fail
	rejectToken bool
	requests    atomic.Int32
}

func (f *fakeHelix) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			f.t.Errorf("parsing token form: %v", err)
		}
		if f.rejectToken || r.Form.Get("client_secret") != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		f.writeJSON(w, map[string]interface{}{
			"access_token": "app-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("/helix/", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer app-token" || r.Header.Get("Client-Id") != "client" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case "/helix/chat/emotes/global":
			f.writeJSON(w, emotesResponse{Data: f.global})
		case "/helix/users":
			login := r.URL.Query().Get("login")
			resp := usersResponse{Data: []helixUser{}}
			if u, ok := f.users[login]; ok {
				resp.Data = append(resp.Data, u)
			}
			f.writeJSON(w, resp)
		case "/helix/chat/emotes":
			f.writeJSON(w, emotesResponse{Data: f.channels[r.URL.Query().Get("broadcaster_id")]})
		default:
			http.NotFound(w, r)
		}
	})

	return httptest.NewServer(mux)
}

func (f *fakeHelix) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("encoding response: %v", err)
	}
}
