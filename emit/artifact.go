package emit

import (
	"fmt"

	"github.com/tsbridge/tsbridge/tserrors"
)

// ArtifactKind identifies one emitted output file.
type ArtifactKind string

const (
	// ArtifactTypes is the TypeScript type declarations file.
	ArtifactTypes ArtifactKind = "types"
	// ArtifactValidators is the zod runtime validators file.
	ArtifactValidators ArtifactKind = "validators"
	// ArtifactClient is the typed fetch client file.
	ArtifactClient ArtifactKind = "client"
	// ArtifactHooks is the data-fetching hooks file.
	ArtifactHooks ArtifactKind = "hooks"
	// ArtifactIntegrationDoc is the API integration guide.
	ArtifactIntegrationDoc ArtifactKind = "integration-doc"
	// ArtifactQuickstartDoc is the quickstart guide.
	ArtifactQuickstartDoc ArtifactKind = "quickstart-doc"
)

// Filename returns the output file name for the artifact.
func (k ArtifactKind) Filename() string {
	switch k {
	case ArtifactTypes:
		return "types.ts"
	case ArtifactValidators:
		return "validators.ts"
	case ArtifactClient:
		return "client.ts"
	case ArtifactHooks:
		return "hooks.ts"
	case ArtifactIntegrationDoc:
		return "API_INTEGRATION.md"
	case ArtifactQuickstartDoc:
		return "QUICKSTART.md"
	default:
		return string(k)
	}
}

// HookMode selects which hook bindings are emitted; it affects only the
// hooks artifact, never the type model.
type HookMode string

const (
	// HookModeNone disables hook emission entirely.
	HookModeNone HookMode = "none"
	// HookModeBasic emits plain fetch-on-mount hooks with local state.
	HookModeBasic HookMode = "basic"
	// HookModeQuery emits query-key based hooks for cache-driven data
	// layers.
	HookModeQuery HookMode = "query-style"
)

// ParseHookMode validates a hook mode string.
func ParseHookMode(s string) (HookMode, error) {
	switch HookMode(s) {
	case HookModeNone, HookModeBasic, HookModeQuery:
		return HookMode(s), nil
	case "":
		return HookModeBasic, nil
	default:
		return "", &tserrors.ConfigError{
			Option:  "hookMode",
			Value:   s,
			Message: fmt.Sprintf("must be one of %q, %q, %q", HookModeNone, HookModeBasic, HookModeQuery),
		}
	}
}

// Artifacts returns the artifact set for a hook mode, in emission order.
func Artifacts(mode HookMode) []ArtifactKind {
	kinds := []ArtifactKind{ArtifactTypes, ArtifactValidators, ArtifactClient}
	if mode != HookModeNone {
		kinds = append(kinds, ArtifactHooks)
	}
	return append(kinds, ArtifactIntegrationDoc, ArtifactQuickstartDoc)
}
