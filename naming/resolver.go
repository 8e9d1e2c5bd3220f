package naming

import (
	"path"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Resolver maps dependency tokens to canonical identifiers within one application.
// It performs lookups only.
type Resolver struct {
	app *Application
}

// NewResolver creates a resolver bound to an application
func NewResolver(app *Application) *Resolver {
	return &Resolver{app: app}
}

// Application the owning application
func (r *Resolver) Application() *Application {
	return r.app
}

// Resolve resolves raw, declared by component declaringName of module declaring.
//
// Precedence, first success wins:
//  1. "rel#Name": rel is resolved through the declaring module's relative table,
//     then as a path relative to the declaring module, then as an absolute module path
//  2. bare name declared by the declaring module itself
//  3. "module/Name": first module in application order with that simple name
//     and a component called Name
func (r *Resolver) Resolve(raw string, declaring *Module, declaringName string) (component.ID, error) {
	if !r.app.Contains(declaring) {
		p := "<nil>"
		if declaring != nil {
			p = declaring.Path()
		}
		return "", ErrForeignModule.WithMsgf("module %q does not belong to application %q", p, r.app.Name())
	}

	tok, err := ParseToken(raw)
	if err != nil {
		return "", err
	}

	unresolved := &UnresolvedDependencyError{Declaring: declaring.ID(declaringName), Token: raw}

	if tok.Kind == KindRelative {
		target, ok := r.navigate(declaring, tok.Module)
		if !ok || !target.HasComponent(tok.Component) {
			return "", unresolved
		}
		return target.ID(tok.Component), nil
	}

	if declaring.HasComponent(raw) {
		return declaring.ID(raw), nil
	}

	if tok.Kind == KindQualified {
		for _, m := range r.app.modules {
			if m.Name() == tok.Module && m.HasComponent(tok.Component) {
				return m.ID(tok.Component), nil
			}
		}
	}

	return "", unresolved
}

// navigate finds the module a relative module path points at.
func (r *Resolver) navigate(from *Module, rel string) (*Module, bool) {
	if p, ok := from.Relative(rel); ok {
		m, found := r.app.Module(p)
		return m, found
	}
	if m, ok := r.app.Module(path.Join(path.Dir(from.Path()), rel)); ok {
		return m, true
	}
	return r.app.Module(rel)
}
