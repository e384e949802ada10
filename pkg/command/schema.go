// pkg/command/schema.go
package command

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// WireSchema reflects the JSON schema of the command envelope accepted by the
// transport gateway. Serving the schema lets client tooling validate commands
// without importing this module, and documents the forward-compatibility
// contract: unknown commandType values are accepted on the wire.
func WireSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	schema := reflector.ReflectFromType(reflect.TypeOf(Command{}))
	schema.Version = ""
	schema.Title = "Lockstep Command Envelope"
	schema.Description = "Player command bound to a simulation tick; payload is bounded structured data."
	return schema
}
