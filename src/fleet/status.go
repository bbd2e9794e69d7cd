package fleet

import (
	"fmt"
	"reflect"

	"github.com/ugorji/go/codec"

	"github.com/stakeworks/fleet/src/common"
)

// PrettyJSON re-encodes one host's raw stats payload with indentation. The
// node service returns a flat JSON object from its /Stats endpoint; the
// status action captures it per host and renders it readable here.
func PrettyJSON(raw []byte) (string, error) {
	handle := new(codec.JsonHandle)
	handle.MapType = reflect.TypeOf(map[string]interface{}(nil))

	var v interface{}
	if err := codec.NewDecoderBytes(raw, handle).Decode(&v); err != nil {
		return "", common.NewFleetErr(common.RemoteExecution,
			fmt.Sprintf("stats endpoint returned invalid JSON: %v", err))
	}

	handle.Indent = 2

	var out []byte
	if err := codec.NewEncoderBytes(&out, handle).Encode(v); err != nil {
		return "", err
	}

	return string(out), nil
}
