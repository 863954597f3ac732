package config

import (
	"github.com/google/uuid"
)

// builtinNamespace scopes the derived identities of builtin commands.
var builtinNamespace = uuid.MustParse("7b9f54de-4d0e-46a7-9d5c-1f10adbd9f21")

// builtinUUID derives a stable identity for a builtin command from its
// label, so saved usage survives restarts without persisting the builtin
// itself.
func builtinUUID(label string) string {
	return uuid.NewSHA1(builtinNamespace, []byte(label)).String()
}
