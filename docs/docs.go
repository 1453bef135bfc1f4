// Package docs регистрирует OpenAPI-описание для /swagger.
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
        "/brackets/template": {
            "get": {
                "tags": ["brackets"],
                "summary": "Шаблон сетки плей-офф без сохранения",
                "parameters": [
                    {"type": "integer", "name": "groups", "in": "query", "required": true},
                    {"type": "integer", "name": "qualifiers", "in": "query", "required": true},
                    {"type": "string", "name": "mode", "in": "query", "enum": ["GENERAL", "OLYMPIC"]}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "tags": ["standings"],
                "summary": "Таблицы групп",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "criteria", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/matches": {
            "get": {
                "tags": ["matches"],
                "summary": "Матчи турнира в порядке создания",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "stage", "in": "query", "enum": ["GROUP", "ELIMINATION"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tournaments/{tournamentID}/bracket": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["brackets"],
                "summary": "Создать матчи плей-офф по шаблону",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/progression/resolve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["progression"],
                "summary": "Заполнить слоты плей-офф по правилам",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/matches/{matchID}/result": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["matches"],
                "summary": "Записать счёт матча",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{matchID}/slots/{side}/rule": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["matches"],
                "summary": "Задать правило слота (LIMPAR очищает слот)",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"type": "string", "name": "side", "in": "path", "required": true, "enum": ["A", "B"]},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tournament Progression API",
	Description:      "Таблицы групп, шаблоны сетки и продвижение команд по плей-офф.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
