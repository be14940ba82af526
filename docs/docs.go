// Package docs registers the OpenAPI document for the API with swag so the
// router can serve it under /swagger/. Keep it in step with the controller
// annotations when routes change.
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
        "/cache": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Inspect the availability cache",
                "responses": {
                    "200": {
                        "description": "data contains size and keys",
                        "schema": {"$ref": "#/definitions/helpers.APIResponse"}
                    }
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Drop every cached availability entry",
                "responses": {
                    "200": {
                        "description": "data.cleared is the number of removed entries",
                        "schema": {"$ref": "#/definitions/helpers.APIResponse"}
                    }
                }
            }
        },
        "/events": {
            "post": {
                "description": "Accepts booking_created, booking_cancelled, club_updated and court_updated events. Evicts affected cached availability and publishes a notification.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Ingest an upstream change event",
                "parameters": [
                    {
                        "description": "Change event",
                        "name": "event",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/intake.ExternalEvent"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "data.status is processed",
                        "schema": {"$ref": "#/definitions/controllers.ProcessEventSuccessResponse"}
                    },
                    "400": {
                        "description": "error.code: bad_request",
                        "schema": {"$ref": "#/definitions/helpers.APIResponse"}
                    },
                    "500": {
                        "description": "error.code: internal_error",
                        "schema": {"$ref": "#/definitions/helpers.APIResponse"}
                    }
                }
            }
        },
        "/search": {
            "get": {
                "description": "Returns every club of a place with its courts and the slots available on the given date. Served from cache when possible.",
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search court availability",
                "parameters": [
                    {"type": "string", "description": "Place ID", "name": "placeId", "in": "query", "required": true},
                    {"type": "string", "description": "Date (YYYY-MM-DD)", "name": "date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "data contains clubs with availability",
                        "schema": {"$ref": "#/definitions/controllers.SearchSuccessResponse"}
                    },
                    "400": {
                        "description": "error.code: bad_request",
                        "schema": {"$ref": "#/definitions/helpers.APIResponse"}
                    },
                    "500": {
                        "description": "error.code: internal_error",
                        "schema": {"$ref": "#/definitions/helpers.APIResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "controllers.ProcessEventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ProcessedResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ProcessedResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "controllers.SearchSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/domain.ClubWithAvailability"}
                },
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.ClubWithAvailability": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "courts": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/domain.CourtWithAvailability"}
                }
            }
        },
        "domain.CourtWithAvailability": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "available": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/domain.Slot"}
                }
            }
        },
        "domain.Slot": {
            "type": "object",
            "properties": {
                "_priority": {"type": "number"},
                "datetime": {"type": "string"},
                "duration": {"type": "number"},
                "end": {"type": "string"},
                "price": {"type": "number"},
                "start": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "intake.ExternalEvent": {
            "type": "object",
            "properties": {
                "clubId": {"type": "integer"},
                "courtId": {"type": "integer"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "slot": {"$ref": "#/definitions/intake.SlotInput"},
                "type": {"type": "string"}
            }
        },
        "intake.SlotInput": {
            "type": "object",
            "properties": {
                "_priority": {"type": "number"},
                "datetime": {"type": "string"},
                "duration": {"type": "number"},
                "end": {"type": "string"},
                "price": {"type": "number"},
                "priority": {"type": "number"},
                "start": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo is registered under the default instance name at init.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Court Finder API",
	Description:      "Aggregates sports court availability from the club/court/slot service and keeps a cache of it fresh.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
