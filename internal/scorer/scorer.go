package scorer

import (
	"strings"
	"unicode"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Importance weights. Each is granted when the corresponding signal holds;
// the raw sum is normalized by maxImportanceSum so scores land in [0, 1].
const (
	weightExported    = 0.3
	weightDescription = 0.2
	weightNonPrivate  = 0.1
	weightTopLevel    = 0.1
	weightCommonVerb  = 0.1

	maxImportanceSum = weightExported + weightDescription + weightNonPrivate + weightTopLevel + weightCommonVerb
)

// commonVerbs are name patterns that mark an API as part of a library's
// primary workflow.
var commonVerbs = []string{
	"connect", "create", "get", "open", "close",
	"add", "update", "delete", "search", "query",
	"insert", "list", "init", "new",
}

// Signals are the boolean inputs to the importance score. They come from
// the upstream introspection collaborator when available, or are derived
// from the entry itself via FromAPI.
type Signals struct {
	Exported       bool // part of the library's public surface
	HasDescription bool
	NonPrivateName bool // last name segment not underscore-prefixed
	TopLevel       bool // declared in a top-level module, not nested
	CommonVerbName bool // name matches a common API verb
}

// Importance computes the deterministic 0-1 importance score from signals.
func Importance(s Signals) float64 {
	sum := 0.0
	if s.Exported {
		sum += weightExported
	}
	if s.HasDescription {
		sum += weightDescription
	}
	if s.NonPrivateName {
		sum += weightNonPrivate
	}
	if s.TopLevel {
		sum += weightTopLevel
	}
	if s.CommonVerbName {
		sum += weightCommonVerb
	}
	return sum / maxImportanceSum
}

// FromAPI derives importance signals from a catalog entry. Used at build
// time when the upstream record carries no precomputed importance.
func FromAPI(e *types.APIEntry) Signals {
	segments := strings.Split(e.APIID, ".")
	last := segments[len(segments)-1]

	exported := true
	for _, seg := range segments {
		if strings.HasPrefix(seg, "_") {
			exported = false
			break
		}
	}

	return Signals{
		Exported:       exported,
		HasDescription: strings.TrimSpace(e.Description) != "",
		NonPrivateName: !strings.HasPrefix(last, "_"),
		TopLevel:       len(segments) <= 2,
		CommonVerbName: matchesCommonVerb(last),
	}
}

// ImportanceForAPI is the build-time convenience: derive signals and score
// in one call.
func ImportanceForAPI(e *types.APIEntry) float64 {
	return Importance(FromAPI(e))
}

func matchesCommonVerb(name string) bool {
	lowered := strings.Map(func(r rune) rune {
		return unicode.ToLower(r)
	}, name)
	for _, verb := range commonVerbs {
		if strings.Contains(lowered, verb) {
			return true
		}
	}
	return false
}
