// pkg/registry/schema.go
package registry

type InstrumentRegistry struct {
	Version     string                 `json:"version"`
	LastUpdated string                 `json:"lastUpdated"`
	Instruments []InstrumentDefinition `json:"instruments"`
}

type InstrumentDefinition struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Version     string             `json:"version,omitempty"`
	Reference   string             `json:"reference,omitempty"`
	Factors     []FactorDefinition `json:"factors"`
	Tiers       []TierDefinition   `json:"tiers"`
	Tags        []string           `json:"tags,omitempty"`
}

type FactorDefinition struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
	Group  string `json:"group,omitempty"`
}

type TierDefinition struct {
	MinScore       int      `json:"minScore"`
	Label          string   `json:"label"`
	Recommendation string   `json:"recommendation"`
	Considerations []string `json:"considerations,omitempty"`
	RiskPercent    *float64 `json:"riskPercent,omitempty"`
}

// documentSchema is the JSON Schema every registry file must satisfy before
// it is unmarshalled. Semantic checks (tier coverage, exclusivity groups)
// happen later, when the definitions become evaluators.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "instruments"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "instruments": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "factors", "tiers"],
        "properties": {
          "id": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "category": {"type": "string"},
          "version": {"type": "string"},
          "reference": {"type": "string"},
          "tags": {"type": "array", "items": {"type": "string"}},
          "factors": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["id", "label", "points"],
              "additionalProperties": false,
              "properties": {
                "id": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
                "label": {"type": "string", "minLength": 1},
                "points": {"type": "integer", "minimum": 0},
                "group": {"type": "string", "minLength": 1}
              }
            }
          },
          "tiers": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["minScore", "label", "recommendation"],
              "additionalProperties": false,
              "properties": {
                "minScore": {"type": "integer", "minimum": 0},
                "label": {"type": "string", "minLength": 1},
                "recommendation": {"type": "string"},
                "considerations": {"type": "array", "items": {"type": "string"}},
                "riskPercent": {"type": "number", "minimum": 0, "maximum": 100}
              }
            }
          }
        }
      }
    }
  }
}`
