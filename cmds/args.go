package cmds

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/reusee/bastapir/vars"
)

// parseArg converts the first word of args to a value of type t.
func parseArg(t reflect.Type, args []string) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		if len(args) == 0 {
			// optional, zero value
			return reflect.New(t.Elem()), nil
		}
		elem, err := parseArg(t.Elem(), args)
		if err != nil {
			return reflect.Value{}, err
		}
		return elem.Addr(), nil
	}
	if len(args) == 0 {
		return reflect.Value{}, fmt.Errorf("expecting argument, got nothing")
	}
	str := args[0]

	ptr := reflect.New(t)
	if unmarshaler, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(str)); err != nil {
			return reflect.Value{}, fmt.Errorf("convert %s to %v: %w", str, t, err)
		}
		return ptr.Elem(), nil
	}

	ret := ptr.Elem()
	var err error
	switch t.Kind() {
	case reflect.Bool:
		ret.SetBool(vars.StrToBool(str))
	case reflect.String:
		ret.SetString(str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var v int64
		if v, err = strconv.ParseInt(str, 10, t.Bits()); err == nil {
			ret.SetInt(v)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var v uint64
		if v, err = strconv.ParseUint(str, 10, t.Bits()); err == nil {
			ret.SetUint(v)
		}
	case reflect.Float32, reflect.Float64:
		var v float64
		if v, err = strconv.ParseFloat(str, t.Bits()); err == nil {
			ret.SetFloat(v)
		}
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type: %v", t)
	}
	if err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s to %v: %w", str, t, err)
	}
	return ret, nil
}
