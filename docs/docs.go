// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cities": {
            "post": {
                "description": "Creates a new city record in the database",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cities"],
                "summary": "Create a new city",
                "parameters": [
                    {
                        "description": "City to create",
                        "name": "city",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.CreateCityRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created city", "schema": {"$ref": "#/definitions/types.CityResponse"}},
                    "400": {"description": "Validation problem", "schema": {"$ref": "#/definitions/api.ValidationProblem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/cities/search": {
            "get": {
                "description": "Search for cities by name. Returns local data supplemented with country and weather data, or external-only data if no local city matches.",
                "produces": ["application/json"],
                "tags": ["Cities"],
                "summary": "Search for cities",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Case-insensitive substring of the city name",
                        "name": "name",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Matching cities (possibly empty)",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/types.CityResponse"}}
                    },
                    "400": {"description": "Missing name", "schema": {"$ref": "#/definitions/api.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/cities/{id}": {
            "get": {
                "description": "Returns a stored city by id",
                "produces": ["application/json"],
                "tags": ["Cities"],
                "summary": "Get a city",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "City", "schema": {"$ref": "#/definitions/types.CityResponse"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/api.Response"}},
                    "404": {"description": "City not found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "put": {
                "description": "Updates tourist rating, date established, and estimated population of an existing city",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cities"],
                "summary": "Update an existing city",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Mutable fields",
                        "name": "city",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.UpdateCityRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Updated city", "schema": {"$ref": "#/definitions/types.CityResponse"}},
                    "400": {"description": "Validation problem", "schema": {"$ref": "#/definitions/api.ValidationProblem"}},
                    "404": {"description": "City not found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "delete": {
                "description": "Removes a city record from the database",
                "tags": ["Cities"],
                "summary": "Delete a city",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "City not found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "api.ValidationProblem": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "request_id": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "types.CityResponse": {
            "type": "object",
            "properties": {
                "country": {"type": "string"},
                "country2Code": {"type": "string"},
                "country3Code": {"type": "string"},
                "currencyCode": {"type": "string"},
                "dateEstablished": {"type": "string"},
                "estimatedPopulation": {"type": "integer"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "state": {"type": "string"},
                "touristRating": {"type": "integer"},
                "weather": {"type": "object"}
            }
        },
        "types.CreateCityRequest": {
            "type": "object",
            "properties": {
                "country": {"type": "string", "example": "France"},
                "dateEstablished": {"type": "string", "example": "0508-01-01T00:00:00Z"},
                "estimatedPopulation": {"type": "integer", "example": 2100000},
                "name": {"type": "string", "example": "Paris"},
                "state": {"type": "string", "example": "Ile-de-France"},
                "touristRating": {"type": "integer", "example": 5}
            }
        },
        "types.UpdateCityRequest": {
            "type": "object",
            "properties": {
                "dateEstablished": {"type": "string", "example": "0508-01-01T00:00:00Z"},
                "estimatedPopulation": {"type": "integer", "example": 2150000},
                "touristRating": {"type": "integer", "example": 4}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "City Management API",
	Description:      "City catalog with search enriched by country metadata and current weather.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
