package persist

import (
	"encoding/json"
	"fmt"
)

// Key renders an argument value as the canonical JSON used for cache keys.
// Struct fields encode in declaration order and map keys sorted, so equal
// arguments always produce equal keys. Empty structs and nil collapse to
// ZeroArgKey.
func Key(args any) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgEncodeKey, err)
	}
	switch s := string(data); s {
	case "null", "{}":
		return ZeroArgKey, nil
	default:
		return s, nil
	}
}
