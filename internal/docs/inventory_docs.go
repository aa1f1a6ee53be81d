package docs

import "github.com/swaggo/swag"

const docTemplateInventory = `{
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
        "/inventory": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "List stock records",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "offset",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/inventory.ListResponse"
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Create a stock record",
                "parameters": [
                    {
                        "description": "record",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/inventory.CreateStockRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/inventory.StockRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            }
        },
        "/inventory/{productId}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Stock record of a product",
                "description": "The order service reads quantity_available from here before placing an order.",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "productId",
                        "in": "path",
                        "required": true,
                        "description": "product id"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/inventory.StockRecord"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Replace quantity and location of a product's record",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "productId",
                        "in": "path",
                        "required": true,
                        "description": "product id"
                    },
                    {
                        "description": "record",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/inventory.UpdateStockRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/inventory.StockRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            }
        },
        "/inventory/{productId}/increase": {
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Increase a product's stock",
                "description": "Applies the change atomically. Decreasing is not floored at zero.",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "productId",
                        "in": "path",
                        "required": true,
                        "description": "product id"
                    },
                    {
                        "type": "integer",
                        "description": "units",
                        "name": "quantity",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/inventory.StockRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            }
        },
        "/inventory/{productId}/decrease": {
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Decrease a product's stock",
                "description": "Applies the change atomically. Decreasing is not floored at zero.",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "productId",
                        "in": "path",
                        "required": true,
                        "description": "product id"
                    },
                    {
                        "type": "integer",
                        "description": "units",
                        "name": "quantity",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/inventory.StockRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            }
        },
        "/inventory/{id}": {
            "patch": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Partially update a stock record",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "record id"
                    },
                    {
                        "description": "product_id, quantity_available or location",
                        "name": "fields",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/inventory.StockRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "inventory"
                ],
                "summary": "Delete a stock record",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "record id"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpx.HTTPError"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "httpx.HTTPError": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "not found"
                }
            }
        },
        "inventory.CreateStockRequest": {
            "type": "object",
            "required": [
                "product_id"
            ],
            "properties": {
                "product_id": {
                    "type": "integer",
                    "example": 1
                },
                "quantity_available": {
                    "type": "integer",
                    "example": 10
                },
                "location": {
                    "type": "string",
                    "example": "Santiago centro"
                }
            }
        },
        "inventory.ListResponse": {
            "type": "object",
            "properties": {
                "limit": {
                    "type": "integer"
                },
                "offset": {
                    "type": "integer"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/inventory.StockRecord"
                    }
                }
            }
        },
        "inventory.StockRecord": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "product_id": {
                    "type": "integer"
                },
                "quantity_available": {
                    "type": "integer"
                },
                "location": {
                    "type": "string"
                }
            }
        },
        "inventory.UpdateStockRequest": {
            "type": "object",
            "required": [
                "quantity_available"
            ],
            "properties": {
                "quantity_available": {
                    "type": "integer"
                },
                "location": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfoInventory holds exported Swagger Info so clients can modify it
var SwaggerInfoInventory = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Perfulandia inventory service",
	Description:      "Stock records and the stock-delta consumer.",
	InfoInstanceName: "inventory",
	SwaggerTemplate:  docTemplateInventory,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfoInventory.InstanceName(), SwaggerInfoInventory)
}
