package schema

import _ "embed"

// ConfigSchema is the JSON schema the reqctx configuration file is validated against
//go:embed config.schema.json
var ConfigSchema []byte
