package validation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
)

// MaxEmailLength is the longest address accepted (RFC 5321 path limit).
const MaxEmailLength = 254

// JSONSchema defines the structure for request parameter schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Pattern     *string  `json:"pattern,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// EmailQuerySchema covers the ?email= parameter of the roster endpoints.
var EmailQuerySchema = MustSchemaFromJSON(fmt.Sprintf(`{
	"type": "object",
	"required": ["email"],
	"additionalProperties": true,
	"properties": {
		"email": {
			"type": "string",
			"description": "student email address",
			"minLength": 1,
			"maxLength": %d,
			"pattern": "\\S"
		}
	}
}`, MaxEmailLength))

// ValidateInput validates input against the schema with detailed errors
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	errors := []ValidationError{}

	for _, requiredField := range schema.Required {
		if _, exists := input[requiredField]; !exists {
			errors = append(errors, ValidationError{
				Field:   requiredField,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for fieldName, value := range input {
		prop, exists := schema.Properties[fieldName]
		if !exists {
			if !schema.AdditionalProperties {
				errors = append(errors, ValidationError{
					Field:   fieldName,
					Message: "field not allowed in schema",
					Code:    "EXTRA_FIELD",
				})
			}
			continue
		}

		errors = append(errors, validateField(fieldName, value, prop)...)
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// ValidateQuery validates decoded query parameters. Only the first value of
// each parameter is considered.
func ValidateQuery(values url.Values, schema JSONSchema) *ValidationResult {
	input := make(map[string]interface{}, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			input[key] = vals[0]
		}
	}
	return ValidateInput(input, schema)
}

func validateField(fieldName string, value interface{}, prop Property) []ValidationError {
	errors := []ValidationError{}

	strVal, ok := value.(string)
	if prop.Type == "string" && !ok {
		return append(errors, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected string, got %T", value),
			Code:    "INVALID_TYPE",
		})
	}
	if !ok {
		return errors
	}

	// Lengths count characters, not bytes.
	length := len([]rune(strVal))
	if prop.MinLength != nil && length < *prop.MinLength {
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be at least %d characters", *prop.MinLength),
			Code:    "MIN_LENGTH_VIOLATION",
		})
	}
	if prop.MaxLength != nil && length > *prop.MaxLength {
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be at most %d characters", *prop.MaxLength),
			Code:    "MAX_LENGTH_VIOLATION",
		})
	}

	if prop.Pattern != nil && strVal != "" {
		matched, err := regexp.MatchString(*prop.Pattern, strVal)
		if err != nil || !matched {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: "value must not be blank",
				Code:    "PATTERN_MISMATCH",
			})
		}
	}

	if len(prop.Enum) > 0 {
		found := false
		for _, enumVal := range prop.Enum {
			if strVal == enumVal {
				found = true
				break
			}
		}
		if !found {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("value must be one of %v", prop.Enum),
				Code:    "INVALID_ENUM_VALUE",
			})
		}
	}

	return errors
}

// GetSchemaFromJSON parses a schema from its JSON form
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// MustSchemaFromJSON is GetSchemaFromJSON for package-level schemas.
func MustSchemaFromJSON(schemaJSON string) JSONSchema {
	schema, err := GetSchemaFromJSON(schemaJSON)
	if err != nil {
		panic(fmt.Sprintf("invalid schema: %v", err))
	}
	return schema
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
