package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
)

func TestFactoryDefaultsToNetHTTP(t *testing.T) {
	wc, err := New(Config{}, logging.Noop{})
	if err != nil {
		t.Fatal(err)
	}
	defer wc.Close()
	if _, ok := wc.(*NetHTTPClient); !ok {
		t.Fatalf("default backend is %T, want *NetHTTPClient", wc)
	}
}

func TestFactoryUnknownBackend(t *testing.T) {
	if _, err := New(Config{Backend: "carrier-pigeon"}, logging.Noop{}); err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}

func TestRegisterBackendOverride(t *testing.T) {
	called := false
	RegisterBackend("testonly", func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		called = true
		return NewNetHTTPClient(cfg, logger, nil)
	})
	wc, err := New(Config{Backend: "TestOnly"}, logging.Noop{})
	if err != nil {
		t.Fatal(err)
	}
	defer wc.Close()
	if !called {
		t.Error("constructor not invoked")
	}
}

func TestNetHTTPDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "scanforge-test" {
			t.Errorf("user agent not applied, got %q", r.Header.Get("User-Agent"))
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "1"})
		w.Header().Set("X-Probe", "yes")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	wc, err := NewNetHTTPClient(Config{UserAgent: "scanforge-test"}, logging.Noop{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer wc.Close()

	resp, err := wc.Do(context.Background(), &Request{URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("body = %q", resp.Body)
	}
	if resp.Headers.Get("X-Probe") != "yes" {
		t.Error("headers not captured")
	}
	if len(resp.Cookies) != 1 || resp.Cookies[0].Name != "sid" {
		t.Errorf("cookies = %v", resp.Cookies)
	}
}

func TestNetHTTPRedirectPolicy(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/from", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/to", http.StatusFound)
	})
	mux.HandleFunc("/to", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landed"))
	})
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	wc, err := NewNetHTTPClient(Config{}, logging.Noop{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer wc.Close()

	resp, err := wc.Do(context.Background(), &Request{URL: srv.URL + "/from"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("no-redirect fetch: status = %d, want 302", resp.StatusCode)
	}

	resp, err = wc.Do(context.Background(), &Request{URL: srv.URL + "/from", FollowRedirects: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Body) != "landed" {
		t.Errorf("redirect fetch: body = %q", resp.Body)
	}
}

func TestNetHTTPNilRequest(t *testing.T) {
	wc, _ := NewNetHTTPClient(Config{}, logging.Noop{}, nil)
	defer wc.Close()
	if _, err := wc.Do(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}
