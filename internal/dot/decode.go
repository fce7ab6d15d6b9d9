package dot

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

var (
	rawInstallsType = reflect.TypeOf(RawInstalls{})
	oneOrManyType   = reflect.TypeOf(OneOrMany(nil))
)

// rawFull is the object form of an installs value.
type rawFull struct {
	Cmd     *string  `mapstructure:"cmd"`
	Depends []string `mapstructure:"depends"`
}

// DecodeCapabilities decodes a generic value into RawCapabilities. Unknown
// fields and unexpected shapes are errors.
func DecodeCapabilities(value any) (RawCapabilities, error) {
	var out RawCapabilities
	if err := strictDecode(value, &out); err != nil {
		return RawCapabilities{}, err
	}
	return out, nil
}

func strictDecode(value any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.ComposeDecodeHookFunc(installsHook, oneOrManyHook),
		ErrorUnused: true,
		Result:      target,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	return dec.Decode(value)
}

func installsHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != rawInstallsType {
		return data, nil
	}
	switch v := data.(type) {
	case RawInstalls:
		return v, nil
	case bool:
		if v {
			return nil, errors.New("installs must be false, a command string or an object with cmd; true is not accepted")
		}
		return RawInstalls{Kind: RawDisabled}, nil
	case string:
		return RawInstalls{Kind: RawSimple, Cmd: v}, nil
	case map[string]any:
		var full rawFull
		if err := strictDecode(v, &full); err != nil {
			return nil, err
		}
		if full.Cmd == nil {
			return nil, errors.New("installs object requires a cmd field")
		}
		return RawInstalls{Kind: RawFull, Cmd: *full.Cmd, Depends: full.Depends}, nil
	default:
		return nil, fmt.Errorf("installs must be false, a command string or an object with cmd, got %T", data)
	}
}

func oneOrManyHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != oneOrManyType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return OneOrMany{s}, nil
	}
	return data, nil
}
