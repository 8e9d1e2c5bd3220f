// Package descriptor reads application descriptors (YAML, JSON or TOML) and turns them into
// naming contexts and registered lifecycle managers.
//
//	application: shop
//	initialize_in_order: true
//	modules:
//	  - path: shop.ear/orders.jar
//	    relatives:
//	      - path: ../billing.jar
//	        module: shop.ear/billing.jar
//	    components:
//	      - name: OrderService
//	        eager: true
//	        depends_on: [Repository, billing/Ledger]
package descriptor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/naming"
	"github.com/KOMKZ/go-yogan-singleton/validator"
)

// Document application descriptor
type Document struct {
	ApplicationName   string   `mapstructure:"application" json:"application" yaml:"application"`
	InitializeInOrder bool     `mapstructure:"initialize_in_order" json:"initialize_in_order" yaml:"initialize_in_order"`
	Modules           []Module `mapstructure:"modules" json:"modules" yaml:"modules"`

	// Source file the document was loaded from, empty when parsed from memory
	Source string `mapstructure:"-" json:"-" yaml:"-"`
}

// Module one deployable module
type Module struct {
	Path       string                 `mapstructure:"path" json:"path" yaml:"path"`
	Name       string                 `mapstructure:"name" json:"name" yaml:"name"`
	Relatives  []Relative             `mapstructure:"relatives" json:"relatives" yaml:"relatives"`
	Components []component.Descriptor `mapstructure:"components" json:"components" yaml:"components"`
}

// Relative maps a relative module path, as written in "rel#Name" tokens, to a module path
type Relative struct {
	Path   string `mapstructure:"path" json:"path" yaml:"path"`
	Module string `mapstructure:"module" json:"module" yaml:"module"`
}

// Load reads a descriptor file; the format follows the extension
func Load(path string) (*Document, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, ErrReadDocument.Wrapf(err, "read application descriptor %s failed", path)
	}
	doc, err := decode(v)
	if err != nil {
		return nil, err
	}
	doc.Source = path
	return doc, nil
}

// Parse decodes a descriptor held in memory; format is yaml, json or toml
func Parse(data []byte, format string) (*Document, error) {
	v := viper.New()
	v.SetConfigType(strings.TrimPrefix(format, "."))
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, ErrReadDocument.Wrap(err)
	}
	return decode(v)
}

// FormatOf descriptor format implied by a file name
func FormatOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func decode(v *viper.Viper) (*Document, error) {
	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, ErrReadDocument.Wrap(err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate structural checks; dependency tokens are checked at registration
func (d *Document) Validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.ApplicationName, validation.Required),
		validation.Field(&d.Modules, validation.Required, validation.By(uniqueModulePaths)),
	)
	if err != nil {
		return validator.Convert(err, ErrInvalidDocument)
	}
	for i := range d.Modules {
		if err := validator.Validate(&d.Modules[i], ErrInvalidDocument.WithMsgf("invalid module %d (%s)", i, d.Modules[i].Path)); err != nil {
			return err
		}
	}
	return nil
}

// Validate module checks
func (m *Module) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Path, validation.Required),
		validation.Field(&m.Relatives, validation.Each(validation.By(func(value interface{}) error {
			rel, _ := value.(Relative)
			return validation.ValidateStruct(&rel,
				validation.Field(&rel.Path, validation.Required),
				validation.Field(&rel.Module, validation.Required),
			)
		}))),
		validation.Field(&m.Components, validation.By(uniqueComponentNames)),
	)
}

func uniqueModulePaths(value interface{}) error {
	modules, _ := value.([]Module)
	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		if seen[m.Path] {
			return fmt.Errorf("duplicate module path %q", m.Path)
		}
		seen[m.Path] = true
	}
	return nil
}

func uniqueComponentNames(value interface{}) error {
	descs, _ := value.([]component.Descriptor)
	seen := make(map[string]bool, len(descs))
	for _, d := range descs {
		if d.Name == "" {
			return fmt.Errorf("component without a name")
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate component %q", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// Application naming context with every declared component name, so forward references resolve
func (d *Document) Application() (*naming.Application, error) {
	modules := make([]*naming.Module, 0, len(d.Modules))
	for _, m := range d.Modules {
		names := make([]string, 0, len(m.Components))
		for _, c := range m.Components {
			names = append(names, c.Name)
		}
		mod := naming.NewModule(m.Path, m.Name, names...)
		for _, rel := range m.Relatives {
			mod.AddRelative(rel.Path, rel.Module)
		}
		modules = append(modules, mod)
	}
	return naming.NewApplication(d.ApplicationName, modules...)
}

// ComponentCount number of declared components
func (d *Document) ComponentCount() int {
	n := 0
	for _, m := range d.Modules {
		n += len(m.Components)
	}
	return n
}
