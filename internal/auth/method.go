package auth

import (
	"fmt"
	"strings"
)

// Method selects how the server obtains credentials for Azure DevOps.
type Method string

const (
	// MethodStaticToken authenticates with a personal access token.
	MethodStaticToken Method = "static-token"
	// MethodServiceIdentity uses the default Azure credential chain
	// (environment, workload identity, managed identity, developer tools).
	MethodServiceIdentity Method = "service-identity"
	// MethodCLIIdentity uses the account signed in to the Azure CLI.
	MethodCLIIdentity Method = "cli-identity"
)

// legacyMethods maps the names accepted by earlier releases.
var legacyMethods = map[string]Method{
	"pat":            MethodStaticToken,
	"azure-identity": MethodServiceIdentity,
	"azure-cli":      MethodCLIIdentity,
}

// ParseMethod parses a method name. Matching is case-insensitive and the
// legacy names pat, azure-identity and azure-cli are accepted.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch m := Method(name); m {
	case MethodStaticToken, MethodServiceIdentity, MethodCLIIdentity:
		return m, nil
	}
	if m, ok := legacyMethods[name]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unsupported authentication method %q", s)
}

// Methods lists the canonical method names.
func Methods() []Method {
	return []Method{MethodStaticToken, MethodServiceIdentity, MethodCLIIdentity}
}

func (m Method) String() string {
	return string(m)
}

// providerName is the human-readable name used in error messages.
func (m Method) providerName() string {
	switch m {
	case MethodServiceIdentity:
		return "Azure Identity"
	case MethodCLIIdentity:
		return "Azure CLI"
	default:
		return string(m)
	}
}
