package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

// BuildResultJSONSchema returns the JSON-Schema every serialized AnalysisResult
// must satisfy. All keys are required; the plain variant carries no rating.
func BuildResultJSONSchema(v Variant) map[string]any {
	text := func() map[string]any { return map[string]any{"type": "string"} }
	score := func() map[string]any { return map[string]any{"type": "integer", "minimum": 0} }

	ratings := []string{""}
	if v.Scored() {
		ratings = []string{string(constants.RatingA), string(constants.RatingB), string(constants.RatingC)}
	}

	props := map[string]any{
		"name":               text(),
		"background":         text(),
		"strengths":          text(),
		"achievements":       text(),
		"weaknesses":         text(),
		"personality":        text(),
		"strengths_score":    score(),
		"achievements_score": score(),
		"personality_score":  score(),
		"overall_rating":     map[string]any{"type": "string", "enum": ratings},
		"verdict": map[string]any{
			"type": "string",
			"enum": []string{string(constants.VerdictPass), string(constants.VerdictFail)},
		},
	}
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateResult checks the serialized form of r for variant v.
func ValidateResult(r entity.AnalysisResult, v Variant) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildResultJSONSchema(v), b); err != nil {
		return common.NewAppError("RESULT_INVALID", "analysis result failed schema validation", fmt.Errorf("%w: %w", common.ErrValidation, err))
	}
	return nil
}
