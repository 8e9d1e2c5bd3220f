package naming

import (
	"strings"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Kind token grammar variant
type Kind int

const (
	// KindBare "Foo": looked up in the declaring module
	KindBare Kind = iota
	// KindQualified "orders/Foo": bare lookup first, then module-name scan
	KindQualified
	// KindRelative "../orders.jar#Foo": navigated from the declaring module
	KindRelative
)

func (k Kind) String() string {
	switch k {
	case KindBare:
		return "bare"
	case KindQualified:
		return "qualified"
	case KindRelative:
		return "relative"
	default:
		return "unknown"
	}
}

// Token parsed dependency token
type Token struct {
	Raw       string
	Kind      Kind
	Module    string // relative module path (KindRelative) or module name (KindQualified)
	Component string
}

// ParseToken classifies a raw dependency token.
func ParseToken(raw string) (Token, error) {
	if strings.TrimSpace(raw) == "" {
		return Token{}, ErrInvalidToken.WithMsg("empty dependency token")
	}

	if i := strings.LastIndex(raw, component.ModuleSeparator); i >= 0 {
		mod, name := raw[:i], raw[i+1:]
		if mod == "" || name == "" {
			return Token{}, ErrInvalidToken.WithMsgf("malformed dependency token %q", raw)
		}
		return Token{Raw: raw, Kind: KindRelative, Module: mod, Component: name}, nil
	}

	if parts := strings.Split(raw, component.QualifierSeparator); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return Token{Raw: raw, Kind: KindQualified, Module: parts[0], Component: parts[1]}, nil
	}

	return Token{Raw: raw, Kind: KindBare, Component: raw}, nil
}
