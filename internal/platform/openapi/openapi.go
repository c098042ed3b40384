// Package openapi describes the provider API as an OpenAPI 3.0 document and
// serves it together with a Swagger UI page.
package openapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const title = "DoctorWAPP API"

// Generator builds the OpenAPI document for the public routes.
type Generator struct {
	version string
	baseURL string
}

func NewGenerator(version, baseURL string) *Generator {
	return &Generator{version: version, baseURL: baseURL}
}

// GenerateSpec produces the OpenAPI 3.0 spec as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       title,
			"version":     g.version,
			"description": "Search NPI registry providers and their Medicare billing statistics.",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": map[string]interface{}{
			"/api/providers/search": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Search providers",
					"operationId": "searchProviders",
					"tags":        []string{"providers"},
					"parameters":  searchParameters(),
					"responses": map[string]interface{}{
						"200": jsonResponse("One page of matching providers", "SearchResponse"),
						"400": jsonResponse("Malformed parameter", "Error"),
						"408": jsonResponse("Complex search exceeded its time budget", "Error"),
						"500": jsonResponse("Unexpected error", "Error"),
					},
				},
			},
			"/api/providers/filters": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List available filter values",
					"operationId": "getProviderFilters",
					"tags":        []string{"providers"},
					"responses": map[string]interface{}{
						"200": jsonResponse("Distinct states and primary specialties", "Filters"),
						"500": jsonResponse("Unexpected error", "Error"),
					},
				},
			},
			"/api/providers/{npi}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get provider details",
					"operationId": "getProviderDetails",
					"tags":        []string{"providers"},
					"parameters": []map[string]interface{}{
						{"name": "npi", "in": "path", "required": true, "schema": map[string]string{"type": "string"}},
					},
					"responses": map[string]interface{}{
						"200": jsonResponse("Provider with taxonomies and Medicare services", "ProviderDetail"),
						"404": jsonResponse("Provider not found", "Error"),
						"500": jsonResponse("Unexpected error", "Error"),
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Service and database health",
					"operationId": "health",
					"tags":        []string{"health"},
					"responses": map[string]interface{}{
						"200": jsonResponse("Database reachable", "Health"),
						"500": jsonResponse("Database unreachable", "Health"),
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": componentSchemas(),
		},
	}
}

type param struct {
	name, typ, format, description string
}

func searchParameters() []map[string]interface{} {
	params := []param{
		{"query", "string", "", "Case-insensitive match on provider or organization name"},
		{"state", "string", "", "Two-letter state code"},
		{"specialty", "string", "", "Primary taxonomy code"},
		{"provider_type", "string", "", "Provider type"},
		{"has_medicare", "boolean", "", "Only providers with Medicare service data"},
		{"page", "integer", "int32", "Page number, default 1"},
		{"limit", "integer", "int32", "Page size, default 10"},
		{"minServiceCount", "number", "double", "Minimum service count of one service line"},
		{"maxServiceCount", "number", "double", "Maximum service count of one service line"},
		{"minPaymentAmount", "number", "double", "Minimum payment amount of one service line"},
		{"maxPaymentAmount", "number", "double", "Maximum payment amount of one service line"},
		{"hcpcsCode", "string", "", "HCPCS/CPT code of one service line"},
		{"serviceYear", "integer", "int32", "Service year of one service line"},
	}

	out := make([]map[string]interface{}, 0, len(params))
	for _, p := range params {
		schema := map[string]string{"type": p.typ}
		if p.format != "" {
			schema["format"] = p.format
		}
		out = append(out, map[string]interface{}{
			"name":        p.name,
			"in":          "query",
			"required":    false,
			"description": p.description,
			"schema":      schema,
		})
	}
	return out
}

func jsonResponse(description, schema string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": ref(schema),
			},
		},
	}
}

func ref(name string) map[string]string {
	return map[string]string{"$ref": fmt.Sprintf("#/components/schemas/%s", name)}
}

func object(props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": props}
}

func typed(t string, nullable bool) map[string]interface{} {
	s := map[string]interface{}{"type": t}
	if nullable {
		s["nullable"] = true
	}
	return s
}

func arrayOf(items interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": items}
}

func addressSchema(nullable bool) map[string]interface{} {
	return object(map[string]interface{}{
		"line1":        typed("string", nullable),
		"line2":        typed("string", nullable),
		"city":         typed("string", nullable),
		"state":        typed("string", nullable),
		"postal_code":  typed("string", nullable),
		"country_code": typed("string", nullable),
	})
}

func componentSchemas() map[string]interface{} {
	str, nstr := typed("string", false), typed("string", true)
	num := typed("number", false)

	return map[string]interface{}{
		"Error": object(map[string]interface{}{
			"error":   map[string]interface{}{"type": "string", "enum": []string{"bad_request", "not_found", "timeout", "rate_limited", "internal_error"}},
			"message": str,
		}),
		"SearchAddress": addressSchema(false),
		"Address":       addressSchema(true),
		"ProviderSearchResult": object(map[string]interface{}{
			"npi":               str,
			"provider_name":     str,
			"first_name":        str,
			"last_name":         str,
			"organization_name": str,
			"provider_type":     str,
			"address":           ref("SearchAddress"),
			"phone":             str,
			"status":            str,
		}),
		"SearchResponse": object(map[string]interface{}{
			"providers": arrayOf(ref("ProviderSearchResult")),
			"total":     typed("integer", false),
			"page":      typed("integer", false),
			"limit":     typed("integer", false),
		}),
		"Filters": object(map[string]interface{}{
			"states":      arrayOf(str),
			"specialties": arrayOf(str),
		}),
		"Taxonomy": object(map[string]interface{}{
			"code":        str,
			"description": nstr,
			"isPrimary":   typed("boolean", false),
			"license":     nstr,
		}),
		"MedicareService": object(map[string]interface{}{
			"code":             nstr,
			"description":      nstr,
			"serviceCount":     num,
			"beneficiaryCount": typed("integer", false),
			"submittedCharge":  num,
			"allowedAmount":    num,
			"paymentAmount":    num,
			"year":             typed("integer", true),
			"placeOfService":   nstr,
		}),
		"MedicareSummary": object(map[string]interface{}{
			"totalServices":      num,
			"totalBeneficiaries": typed("integer", false),
			"totalPayments":      num,
			"totalSubmitted":     num,
			"totalAllowed":       num,
		}),
		"ProviderDetail": object(map[string]interface{}{
			"npi":               str,
			"provider_name":     str,
			"first_name":        nstr,
			"last_name":         nstr,
			"organization_name": nstr,
			"provider_type":     nstr,
			"address":           ref("Address"),
			"phone":             nstr,
			"email":             nstr,
			"direct_address":    nstr,
			"fhir_endpoint":     nstr,
			"enumeration_date":  map[string]interface{}{"type": "string", "format": "date", "nullable": true},
			"last_updated":      map[string]interface{}{"type": "string", "format": "date", "nullable": true},
			"status":            nstr,
			"taxonomies":        arrayOf(ref("Taxonomy")),
			"medicare": object(map[string]interface{}{
				"summary":  ref("MedicareSummary"),
				"services": arrayOf(ref("MedicareService")),
			}),
		}),
		"Health": object(map[string]interface{}{
			"status":      str,
			"database":    str,
			"timestamp":   map[string]interface{}{"type": "string", "format": "date-time"},
			"environment": str,
			"version":     str,
		}),
	}
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>` + title + ` - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
  <style>
    body { margin: 0; background: #fafafa; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/openapi.json",
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis],
      layout: "BaseLayout"
    })
  </script>
</body>
</html>`

// RegisterRoutes serves /openapi.json and the /docs page on e.
func (g *Generator) RegisterRoutes(e *echo.Echo) {
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
	e.GET("/docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerUIHTML)
	})
}
