// Package mount parses the two textual mount grammars accepted by
// devcontainer descriptors into Docker mount specs.
package mount

import (
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/mount"
)

var knownTypes = map[string]mount.Type{
	"bind":   mount.TypeBind,
	"volume": mount.TypeVolume,
	"tmpfs":  mount.TypeTmpfs,
	"npipe":  mount.TypeNamedPipe,
}

// Parse converts a mount string into a mount.Mount. Strings containing a
// comma or an equals sign use the key=value grammar, anything else the
// SRC:DST shorthand.
func Parse(s string) (mount.Mount, error) {
	if strings.ContainsAny(s, ",=") {
		return parseCommaForm(s)
	}
	return parseColonForm(s)
}

// parseColonForm handles "SRC:DST". Extra colon-separated fields are
// ignored; the type is always bind.
func parseColonForm(s string) (mount.Mount, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return mount.Mount{}, fmt.Errorf("invalid mount point: %s", s)
	}

	return mount.Mount{
		Source: parts[0],
		Target: parts[1],
		Type:   mount.TypeBind,
	}, nil
}

// parseCommaForm handles "key=value,key=value,...". Recognized keys are
// source, target, type and consistency; anything else is an error. Missing
// keys are allowed.
func parseCommaForm(s string) (mount.Mount, error) {
	var m mount.Mount

	for _, part := range strings.Split(s, ",") {
		name, value, found := strings.Cut(part, "=")
		if !found {
			return mount.Mount{}, fmt.Errorf("invalid mount point: %s", s)
		}

		switch name {
		case "source":
			m.Source = value
		case "target":
			m.Target = value
		case "type":
			typ, ok := knownTypes[value]
			if !ok {
				return mount.Mount{}, fmt.Errorf("invalid mount point type %q in: %s", value, s)
			}
			m.Type = typ
		case "consistency":
			m.Consistency = mount.Consistency(value)
		default:
			return mount.Mount{}, fmt.Errorf("invalid attr %q for mount point: %s", name, s)
		}
	}

	return m, nil
}
