package gdocai

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON converts a protocol buffer message or a plain Go value to JSON.
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		js, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(js), nil
	default:
		js, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(js), nil
	}
}
