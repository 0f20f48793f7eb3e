package config

// Schema is the JSON Schema (Draft 2020-12) for .archexpect.yaml.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/archexpect/config.schema.json",
  "title": "archexpect configuration",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "format": {
      "enum": ["text", "json"]
    },
    "tests": {
      "type": "boolean"
    },
    "expectations": {
      "type": "array",
      "items": { "$ref": "#/$defs/Expectation" }
    }
  },
  "$defs": {
    "Expectation": {
      "type": "object",
      "additionalProperties": false,
      "required": ["origin", "target"],
      "properties": {
        "origin": { "$ref": "#/$defs/Origin" },
        "target": { "$ref": "#/$defs/Target" },
        "line": {
          "type": "integer",
          "minimum": 0,
          "description": "Expected source line; 0 or absent accepts any line"
        }
      }
    },
    "Origin": {
      "type": "object",
      "additionalProperties": false,
      "required": ["owner", "name"],
      "properties": {
        "owner": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "params": { "$ref": "#/$defs/Params" }
      }
    },
    "Target": {
      "type": "object",
      "additionalProperties": false,
      "required": ["kind", "owner"],
      "properties": {
        "kind": { "enum": ["field", "method", "constructor"] },
        "owner": { "type": "string", "minLength": 1 },
        "name": { "type": "string" },
        "params": { "$ref": "#/$defs/Params" },
        "accesses": {
          "type": "array",
          "items": {
            "type": "string",
            "pattern": "^(?i:get|set|read|write)$",
            "description": "Access kind, case-insensitive"
          },
          "uniqueItems": true
        }
      },
      "allOf": [
        {
          "if": { "properties": { "kind": { "const": "field" } } },
          "then": { "required": ["name", "accesses"] }
        },
        {
          "if": { "properties": { "kind": { "const": "method" } } },
          "then": { "required": ["name"] }
        }
      ]
    },
    "Params": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    }
  }
}`
