// Package flagx binds cobra flags to option structs through struct tags.
//
//	type SimulateOptions struct {
//	    Ordered bool     `flag:"ordered" usage:"enforce module order" config:"lifecycle.initialize_in_order"`
//	    Fail    []string `flag:"fail,f" usage:"component ids whose instantiation fails"`
//	}
//
// Tags: flag (name[,short], mandatory), usage, default, required, config (configuration key).
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var durationType = reflect.TypeOf(time.Duration(0))

type field struct {
	index    int
	name     string
	short    string
	usage    string
	def      string
	required bool
	config   string
	typ      reflect.Type
}

func fields(target interface{}) (reflect.Value, []field, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("target must be a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()

	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("flag")
		if tag == "" || !sf.IsExported() {
			continue
		}
		name, short, _ := strings.Cut(tag, ",")
		out = append(out, field{
			index:    i,
			name:     name,
			short:    short,
			usage:    sf.Tag.Get("usage"),
			def:      sf.Tag.Get("default"),
			required: sf.Tag.Get("required") == "true",
			config:   sf.Tag.Get("config"),
			typ:      sf.Type,
		})
	}
	return v, out, nil
}

// BindFlags registers one flag per tagged field on cmd.Flags()
func BindFlags(cmd *cobra.Command, target interface{}) error {
	_, fs, err := fields(target)
	if err != nil {
		return err
	}
	for _, f := range fs {
		if err := register(cmd.Flags(), f); err != nil {
			return err
		}
		if f.required {
			if err := cmd.MarkFlagRequired(f.name); err != nil {
				return err
			}
		}
	}
	return nil
}

func register(flags *pflag.FlagSet, f field) error {
	switch {
	case f.typ == durationType:
		def, err := parseDefault(f, time.ParseDuration)
		if err != nil {
			return err
		}
		flags.DurationP(f.name, f.short, def, f.usage)
	case f.typ.Kind() == reflect.String:
		flags.StringP(f.name, f.short, f.def, f.usage)
	case f.typ.Kind() == reflect.Int:
		def, err := parseDefault(f, strconv.Atoi)
		if err != nil {
			return err
		}
		flags.IntP(f.name, f.short, def, f.usage)
	case f.typ.Kind() == reflect.Bool:
		def, err := parseDefault(f, strconv.ParseBool)
		if err != nil {
			return err
		}
		flags.BoolP(f.name, f.short, def, f.usage)
	case f.typ.Kind() == reflect.Slice && f.typ.Elem().Kind() == reflect.String:
		var def []string
		if f.def != "" {
			def = strings.Split(f.def, ",")
		}
		flags.StringSliceP(f.name, f.short, def, f.usage)
	default:
		return fmt.Errorf("flag %s: unsupported field type %s", f.name, f.typ)
	}
	return nil
}

func parseDefault[T any](f field, parse func(string) (T, error)) (T, error) {
	var zero T
	if f.def == "" {
		return zero, nil
	}
	v, err := parse(f.def)
	if err != nil {
		return zero, fmt.Errorf("flag %s: invalid default %q: %w", f.name, f.def, err)
	}
	return v, nil
}

// ParseFlags copies flag values from cmd into target
func ParseFlags(cmd *cobra.Command, target interface{}) error {
	v, fs, err := fields(target)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	for _, f := range fs {
		dst := v.Field(f.index)
		var err error
		switch {
		case f.typ == durationType:
			var d time.Duration
			d, err = flags.GetDuration(f.name)
			dst.SetInt(int64(d))
		case f.typ.Kind() == reflect.String:
			var s string
			s, err = flags.GetString(f.name)
			dst.SetString(s)
		case f.typ.Kind() == reflect.Int:
			var n int
			n, err = flags.GetInt(f.name)
			dst.SetInt(int64(n))
		case f.typ.Kind() == reflect.Bool:
			var b bool
			b, err = flags.GetBool(f.name)
			dst.SetBool(b)
		case f.typ.Kind() == reflect.Slice && f.typ.Elem().Kind() == reflect.String:
			var ss []string
			ss, err = flags.GetStringSlice(f.name)
			dst.Set(reflect.ValueOf(ss))
		default:
			err = fmt.Errorf("unsupported field type %s", f.typ)
		}
		if err != nil {
			return fmt.Errorf("parse flag %s: %w", f.name, err)
		}
	}
	return nil
}

// ConfigKeys flag name -> configuration key, for fields carrying a config tag
func ConfigKeys(target interface{}) (map[string]string, error) {
	_, fs, err := fields(target)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]string)
	for _, f := range fs {
		if f.config != "" {
			keys[f.name] = f.config
		}
	}
	return keys, nil
}
