package report

// Schema is the JSON Schema (Draft 2020-12) for the archexpect check
// JSON output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/archexpect/check-report.schema.json",
  "title": "archexpect Check Report",
  "description": "Output schema for archexpect check --format=json",
  "type": "object",
  "required": ["version", "summary", "results"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Tool version"
    },
    "summary": { "$ref": "#/$defs/Summary" },
    "results": {
      "type": "array",
      "items": { "$ref": "#/$defs/ExpectationResult" }
    },
    "metadata": { "$ref": "#/$defs/Metadata" }
  },
  "$defs": {
    "Summary": {
      "type": "object",
      "required": ["total", "satisfied", "missing"],
      "properties": {
        "total": { "type": "integer", "minimum": 0 },
        "satisfied": { "type": "integer", "minimum": 0 },
        "missing": { "type": "integer", "minimum": 0 }
      }
    },
    "ExpectationResult": {
      "type": "object",
      "required": ["id", "origin", "target", "kind", "found", "occurrences"],
      "properties": {
        "id": {
          "type": "string",
          "pattern": "^ex-[0-9a-f]{8}$",
          "description": "Stable expectation identifier"
        },
        "origin": {
          "type": "string",
          "description": "Rendered expected origin"
        },
        "target": {
          "type": "string",
          "description": "Rendered expected target"
        },
        "kind": {
          "enum": ["field", "method", "constructor"]
        },
        "expected": {
          "type": "string",
          "description": "Message the expectation renders to"
        },
        "found": { "type": "boolean" },
        "occurrences": {
          "type": "array",
          "items": { "$ref": "#/$defs/Occurrence" }
        }
      }
    },
    "Occurrence": {
      "type": "object",
      "required": ["line", "message"],
      "properties": {
        "line": { "type": "integer", "minimum": 1 },
        "message": { "type": "string" }
      }
    },
    "Metadata": {
      "type": "object",
      "required": ["version", "go_version", "duration_ms"],
      "properties": {
        "version": { "type": "string" },
        "go_version": { "type": "string" },
        "patterns": {
          "type": ["array", "null"],
          "items": { "type": "string" }
        },
        "duration_ms": { "type": "integer", "minimum": 0 },
        "timestamp": { "type": "string" }
      }
    }
  }
}`

// ScanSchema is the JSON Schema (Draft 2020-12) for the archexpect scan
// JSON output returned by WriteScanJSON.
const ScanSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/archexpect/scan-report.schema.json",
  "title": "archexpect Scan Report",
  "type": "object",
  "required": ["version", "accesses"],
  "properties": {
    "version": { "type": "string" },
    "accesses": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["origin", "target", "kind", "location", "message"],
        "properties": {
          "origin": { "type": "string" },
          "target": { "type": "string" },
          "kind": { "enum": ["field", "method", "constructor"] },
          "access": { "enum": ["{GET}", "{SET}", "{GET, SET}"] },
          "location": { "type": "string" },
          "message": { "type": "string" }
        }
      }
    }
  }
}`
