// FILE: lixenwraith/flags/decode.go
package flags

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Scan decodes the current flag values under prefix into target, a pointer
// to a struct. Field matching uses the `flag` tag, as RegisterStruct does.
// String flags convert to durations, times (RFC 3339), IPs and
// comma-separated slices.
//
//	var net struct {
//	    Timeout time.Duration `flag:"timeout"`
//	    Peers   []string      `flag:"peers"`
//	}
//	err := r.Scan("net", &net)
func (r *Registry) Scan(prefix string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	section := navigateToPath(r.nestedValues(), prefix)
	sectionMap, ok := section.(map[string]any)
	if !ok {
		if section != nil {
			return fmt.Errorf("prefix %q refers to flag, not a group (type %T)", prefix, section)
		}
		sectionMap = make(map[string]any)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "flag",
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for prefix %q: %w", prefix, err)
	}
	return nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToIPHookFunc(),
		mapstructure.StringToIPNetHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
