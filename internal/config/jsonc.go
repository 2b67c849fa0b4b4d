package config

import (
	"encoding/json"
	"errors"

	"github.com/tailscale/hujson"
)

// ErrConfigNotFound marks a missing descriptor file. The user settings file
// is optional and never produces this error.
var ErrConfigNotFound = errors.New("config file does not exist")

// decodeJSONC decodes a JSON-with-comments document (comments and trailing
// commas allowed) into v.
func decodeJSONC(data []byte, v any) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(std, v)
}
