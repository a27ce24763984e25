// Package apiserver provides OpenAPI documentation handling
package apiserver

import (
	"embed"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

//go:embed openapi.yaml
var openAPISpec embed.FS

// OpenAPIHandler provides OpenAPI/Swagger documentation endpoints
type OpenAPIHandler struct {
	logger *zap.Logger
	spec   string
}

// NewOpenAPIHandler creates a new OpenAPI handler
func NewOpenAPIHandler(logger *zap.Logger) *OpenAPIHandler {
	specData, err := openAPISpec.ReadFile("openapi.yaml")
	if err != nil {
		logger.Error("Failed to read OpenAPI spec", zap.Error(err))
		return &OpenAPIHandler{
			logger: logger,
			spec:   "# OpenAPI spec not available",
		}
	}

	return &OpenAPIHandler{
		logger: logger,
		spec:   string(specData),
	}
}

// ServeOpenAPISpec serves the OpenAPI specification in YAML format
func (h *OpenAPIHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.spec))
}

// ServeSwaggerUI serves an interactive documentation page backed by the
// published spec
func (h *OpenAPIHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	specURL := fmt.Sprintf("%s://%s/api/v1/openapi.yaml", getScheme(r), r.Host)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Mealsmith API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = () => {
            SwaggerUIBundle({
                url: %q,
                dom_id: '#swagger-ui',
                presets: [SwaggerUIBundle.presets.apis],
            });
        };
    </script>
</body>
</html>`, specURL)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}
