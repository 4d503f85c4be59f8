package llm

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// replySchemaJSON is the shape a model reply must have before a candidate
// is accepted. All four fields are optional strings (a missing field just
// means "Not found"), but a reply that is not an object, or that types a
// known field as something other than a string, is rejected as a parse
// error. Extra keys are tolerated; the parser ignores them.
const replySchemaJSON = `{
	"type": "object",
	"properties": {
		"date":       {"type": "string"},
		"owner_name": {"type": "string"},
		"address":    {"type": "string"},
		"apn_taxid":  {"type": "string"}
	},
	"additionalProperties": true
}`

var (
	replySchemaOnce     sync.Once
	replySchemaCompiled *jsonschema.Schema
	replySchemaErr      error
)

// replySchema returns the compiled reply schema. The schema is a fixed part
// of the program, so it compiles once and a failure is a programming error
// surfaced on first use.
func replySchema() (*jsonschema.Schema, error) {
	replySchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("reply.json", strings.NewReader(replySchemaJSON)); err != nil {
			replySchemaErr = err
			return
		}
		replySchemaCompiled, replySchemaErr = compiler.Compile("reply.json")
	})
	return replySchemaCompiled, replySchemaErr
}
