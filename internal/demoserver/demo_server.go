// Package demoserver serves a deliberately weak website for exercising
// the scanner end to end: missing security headers, insecure cookies,
// CMS markers and exposed maintenance paths. Run it, then point a scan
// at localhost.
package demoserver

import (
	"fmt"
	"net/http"
)

// sensitiveDemoPaths answer 200 on the weak variant and 404 on the
// hardened one.
var sensitiveDemoPaths = []string{
	"/admin",
	"/.env",
	"/backup",
	"/phpinfo.php",
	"/wp-login.php",
}

// DemoServer is a small HTTP server posing as a weak WordPress site.
type DemoServer struct {
	cfg Config
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	return &DemoServer{cfg: cfg}
}

// Handler builds the demo site routes. Split from Start so tests can
// mount it on httptest.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	for _, path := range sensitiveDemoPaths {
		mux.HandleFunc(path, s.sensitiveHandler(path))
	}
	mux.HandleFunc("/static/app.js", s.staticHandler)
	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo target starting on http://localhost%s (hardened=%v)\n", addr, s.cfg.Hardened)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoServer) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.cfg.Hardened {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		http.SetCookie(w, &http.Cookie{
			Name: "session", Value: "demo",
			Secure: true, HttpOnly: true, SameSite: http.SameSiteStrictMode,
		})
	} else {
		// No security headers at all, plus markers the scanner looks for.
		w.Header().Set("X-Powered-By", "PHP/7.4.3")
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "demo"})
		http.SetCookie(w, &http.Cookie{Name: "tracking", Value: "1"})
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, homeHTML(s.cfg.Hardened))
}

func homeHTML(hardened bool) string {
	if hardened {
		return `<!DOCTYPE html>
<html>
<head><title>Demo Site</title></head>
<body>
<h1>Demo Site</h1>
<p>Nothing to see here.</p>
</body>
</html>`
	}
	return `<!DOCTYPE html>
<html>
<head>
<title>Demo Site</title>
<meta name="generator" content="WordPress 4.9.8" />
<link rel="stylesheet" href="/wp-content/themes/demo/style.css">
<script src="https://code.jquery.com/jquery-1.12.4.min.js"></script>
<script src="/static/app.js"></script>
</head>
<body>
<h1>Demo Site</h1>
<p>Welcome to our site, powered by WordPress.</p>
<a href="/wp-login.php">Staff login</a>
</body>
</html>`
}

func (s *DemoServer) sensitiveHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Hardened {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "exposed maintenance endpoint: %s\n", path)
	}
}

func (s *DemoServer) staticHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, "console.log('demo');\n")
}
