package swagger

import (
	"context"
	"net/http"
)

// Register attaches the API documentation routes to mux.
// Routes:
//
//	GET /api-docs      -> endpoint index linking the OpenAPI document
//	GET /openapi.yaml  -> embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>fitscore API</title>
  </head>
  <body>
    <h1>fitscore API</h1>
    <ul>
      <li><code>POST /diagnosis</code></li>
      <li><code>GET /diagnosis/{record_id}</code></li>
      <li><code>GET /analytics?type=...</code></li>
      <li><code>GET /stats</code></li>
      <li><code>GET /healthz</code></li>
    </ul>
    <p><a href="/openapi.yaml">OpenAPI specification</a></p>
  </body>
</html>`
