// Package api/openapi provides the OpenAPI 3.0 document and its documentation page.
//
// INTEGRATION POINTS:
// - internal/api/handlers.go: request and response types documented in getOpenAPISpec()
// - internal/errors/handlers.go: ErrorResponse matches ErrorBody
// - Swagger UI CDN: unpkg.com assets are loaded by handleOpenAPI()
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dpshade/prompt-builder/internal/models"
)

const docsHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Prompt Builder API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        html { box-sizing: border-box; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis],
            });
        };
    </script>
</body>
</html>`

// handleOpenAPI serves the documentation page
func (s *Server) handleOpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsHTML))
}

// handleOpenAPISpec serves the OpenAPI JSON document
func (s *Server) handleOpenAPISpec(c *gin.Context) {
	c.JSON(http.StatusOK, getOpenAPISpec())
}

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{"schema": schema},
	}
}

func response(description string, schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content":     jsonContent(schema),
	}
}

func errorResponse(description string) map[string]interface{} {
	return response(description, ref("ErrorResponse"))
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func stringArray() map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}}
}

// getOpenAPISpec returns the OpenAPI 3.0 document
func getOpenAPISpec() map[string]interface{} {
	kinds := make([]string, 0, len(models.ConstraintKinds()))
	for _, k := range models.ConstraintKinds() {
		kinds = append(kinds, string(k))
	}
	templateKeys := make([]string, 0)
	for _, t := range models.Templates() {
		templateKeys = append(templateKeys, string(t.Key))
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Prompt Builder API",
			"description": "Generate, compose and analyze prompts for large language models",
			"version":     "1.0.0",
		},
		"servers": []map[string]interface{}{
			{"url": "http://localhost:8080/api", "description": "Development server"},
		},
		"paths": map[string]interface{}{
			"/generate-prompt": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Generate a prompt",
					"description": "Turns a short description into one ready-to-use prompt. Without a provider credential a fixed template is returned.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content":  jsonContent(ref("GenerationRequest")),
					},
					"responses": map[string]interface{}{
						"200": response("Generated prompt", ref("GenerateResponse")),
						"400": errorResponse("VALIDATION_ERROR or INVALID_INPUT"),
						"429": errorResponse("RATE_LIMITED"),
						"502": errorResponse("GENERATION_FAILED"),
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Health check",
					"responses": map[string]interface{}{
						"200": response("Service is up", map[string]interface{}{
							"type":       "object",
							"properties": map[string]interface{}{"ok": map[string]interface{}{"type": "boolean"}},
						}),
					},
				},
			},
			"/compose": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Compose a prompt",
					"description": "Builds the final prompt from a draft and analyzes it",
					"requestBody": map[string]interface{}{
						"required": true,
						"content":  jsonContent(ref("PromptDraft")),
					},
					"responses": map[string]interface{}{
						"200": response("Composed prompt", ref("ComposeResponse")),
						"400": errorResponse("CONTRACT_VIOLATION, VALIDATION_ERROR or INVALID_INPUT"),
					},
				},
			},
			"/analyze": map[string]interface{}{
				"post": map[string]interface{}{
					"summary": "Analyze a prompt",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": jsonContent(map[string]interface{}{
							"type":       "object",
							"properties": map[string]interface{}{"prompt": stringProp("Prompt text")},
						}),
					},
					"responses": map[string]interface{}{
						"200": response("Analysis, null for a blank prompt", map[string]interface{}{
							"type":       "object",
							"properties": map[string]interface{}{"analysis": ref("AnalysisResult")},
						}),
						"400": errorResponse("INVALID_INPUT"),
					},
				},
			},
			"/templates": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List templates",
					"parameters": []map[string]interface{}{
						{
							"name":        "search",
							"in":          "query",
							"description": "Fuzzy filter on template name and key",
							"required":    false,
							"schema":      map[string]interface{}{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": response("Templates", map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"templates": map[string]interface{}{"type": "array", "items": ref("Template")},
							},
						}),
					},
				},
			},
			"/constraint-kinds": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List constraint kinds",
					"responses": map[string]interface{}{
						"200": response("Constraint kinds", map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"kinds": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"kind":        map[string]interface{}{"type": "string", "enum": kinds},
											"label":       stringProp("Display label used when composing"),
											"placeholder": stringProp("Example value"),
										},
									},
								},
							},
						}),
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"GenerationRequest": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"description":       stringProp("What the prompt should achieve"),
						"userContext":       stringProp("Who is asking"),
						"additionalContext": stringProp("Anything else worth knowing"),
					},
					"required": []string{"description"},
				},
				"GenerateResponse": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{"prompt": stringProp("Generated prompt")},
					"required":   []string{"prompt"},
				},
				"PromptDraft": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"userContext":       stringProp("Who the prompt is for"),
						"backgroundContext": stringProp("Background context"),
						"mainInstruction":   stringProp("Main instruction"),
						"template":          map[string]interface{}{"type": "string", "enum": templateKeys, "description": "Fills an empty main instruction"},
						"constraints": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"id":    stringProp("Client id"),
									"kind":  map[string]interface{}{"type": "string", "enum": kinds},
									"value": stringProp("Constraint value, skipped when blank"),
								},
								"required": []string{"kind"},
							},
						},
						"guidelines": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"id":   stringProp("Client id"),
									"text": stringProp("Guideline, skipped when blank"),
								},
							},
						},
					},
				},
				"AnalysisResult": map[string]interface{}{
					"type":     "object",
					"nullable": true,
					"properties": map[string]interface{}{
						"strengths": stringArray(),
						"issues":    stringArray(),
					},
				},
				"ComposeResponse": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"prompt":   stringProp("Final prompt"),
						"analysis": ref("AnalysisResult"),
					},
				},
				"Template": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"key":      map[string]interface{}{"type": "string", "enum": templateKeys},
						"name":     stringProp("Display name"),
						"template": stringProp("Shape with bracketed slots"),
						"example":  stringProp("Filled-in example"),
					},
				},
				"ErrorResponse": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"error":   stringProp("Error code, e.g. GENERATION_FAILED"),
						"message": stringProp("Human readable message"),
					},
					"required": []string{"error"},
				},
			},
		},
	}
}
