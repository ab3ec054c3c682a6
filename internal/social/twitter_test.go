package social

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flockpulse/flockpulse/internal/config"
)

func TestTwitterFollowerCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errors":[{"title":"Unauthorized","detail":"bad token"}]}`)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/2/users/by/username/nasa":
			fmt.Fprint(w, `{"data":{"id":"11348282","username":"nasa"}}`)
		case "/2/users/11348282":
			if r.URL.Query().Get("user.fields") != "public_metrics" {
				t.Errorf("expected user.fields=public_metrics, got %q", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"data":{"id":"11348282","username":"nasa","public_metrics":{"followers_count":76543210}}}`)
		case "/2/users/by/username/ghost":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"title":"Not Found Error","detail":"Could not find user"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewTwitterClient("test-token", testLogger())
	client.baseURL = srv.URL

	ctx := context.Background()

	count, err := client.FollowerCount(ctx, "@nasa")
	if err != nil {
		t.Fatalf("FollowerCount returned error: %v", err)
	}
	if count != 76543210 {
		t.Errorf("expected 76543210 followers, got %d", count)
	}

	if _, err := client.FollowerCount(ctx, "ghost"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestTwitterValidateCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":{"id":"1","username":"self"}}`)
	}))
	defer srv.Close()

	good := NewTwitterClient("good-token", testLogger())
	good.baseURL = srv.URL
	if !good.ValidateCredentials(context.Background()) {
		t.Error("expected valid token to pass validation")
	}

	bad := NewTwitterClient("bad-token", testLogger())
	bad.baseURL = srv.URL
	if bad.ValidateCredentials(context.Background()) {
		t.Error("expected invalid token to fail validation")
	}
}

func TestNewTwitterClientFromConfigMissingToken(t *testing.T) {
	if client := NewTwitterClientFromConfig(config.TwitterConfig{}, testLogger()); client != nil {
		t.Error("expected nil client without bearer token")
	}
	if client := NewTwitterClientFromConfig(config.TwitterConfig{BearerToken: "tok"}, testLogger()); client == nil {
		t.Error("expected client with bearer token")
	}
}
