package providers

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// mustSchema compiles a vendor response schema at package init.
func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("providers: invalid response schema: %v", err))
	}
	return s
}

// listSchema describes {"<field>": [ {required...} ]}. The list itself must
// be present when listRequired is set.
func listSchema(field string, listRequired bool, required ...string) *gojsonschema.Schema {
	top := ""
	if listRequired {
		top = fmt.Sprintf(`"required": [%q],`, field)
	}
	return mustSchema(fmt.Sprintf(`{
		"type": "object",
		%s
		"properties": {
			%q: {
				"type": ["array", "null"],
				"items": {"type": "object", "required": %s}
			}
		}
	}`, top, field, quoteAll(required)))
}

func quoteAll(fields []string) string {
	q := make([]string, len(fields))
	for i, f := range fields {
		q[i] = fmt.Sprintf("%q", f)
	}
	return "[" + strings.Join(q, ",") + "]"
}

// objectSchema accepts any JSON object, used for price calendars.
var objectSchema = mustSchema(`{"type": "object"}`)

func validatePayload(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("response validation failed: %v", errs)
	}
	return nil
}
