package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CommandLine is a descriptor command that is either a single shell line or
// an explicit argument list. ToArgs is the only accessor; a single line
// normalizes to a one-element vector and is not shell-tokenized here.
type CommandLine struct {
	line   string
	args   []string
	isLine bool
}

// NewCommandLine builds the single-line variant. Used by tests and by
// settings defaults.
func NewCommandLine(line string) *CommandLine {
	return &CommandLine{line: line, isLine: true}
}

// NewCommandArgs builds the argument-list variant.
func NewCommandArgs(args ...string) *CommandLine {
	return &CommandLine{args: args}
}

func (c *CommandLine) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		c.line = line
		c.isLine = true
		return nil
	}

	var args []string
	if err := json.Unmarshal(data, &args); err == nil {
		c.args = args
		c.isLine = false
		return nil
	}

	return fmt.Errorf("command must be a string or a list of strings")
}

// ToArgs normalizes the command to an argument vector.
func (c *CommandLine) ToArgs() []string {
	if c.isLine {
		return []string{c.line}
	}
	return c.args
}

// StringList accepts a single string or a list of strings.
type StringList struct {
	values []string
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		l.values = []string{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		l.values = list
		return nil
	}

	return fmt.Errorf("expected a string or a list of strings")
}

// Values returns the normalized list.
func (l *StringList) Values() []string {
	return l.values
}

// AppPort accepts a port number, a list of port numbers, or a raw string.
// The string variant is passed to the runtime verbatim, which allows port
// ranges and host-ip prefixes the numeric forms cannot express.
type AppPort struct {
	ports []string
}

func (p *AppPort) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		p.ports = []string{strconv.Itoa(single)}
		return nil
	}

	var list []int
	if err := json.Unmarshal(data, &list); err == nil {
		p.ports = make([]string, 0, len(list))
		for _, port := range list {
			p.ports = append(p.ports, strconv.Itoa(port))
		}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		p.ports = []string{raw}
		return nil
	}

	return fmt.Errorf("appPort must be a number, a list of numbers or a string")
}

// Ports returns the normalized port list as strings.
func (p *AppPort) Ports() []string {
	return p.ports
}

// ShutdownAction controls whether an automatic teardown actually stops the
// underlying resource. The zero value is ActionNone.
type ShutdownAction int

const (
	ActionNone ShutdownAction = iota
	ActionStopContainer
	ActionStopCompose
)

func (a *ShutdownAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("shutdownAction must be a string")
	}

	switch strings.ToLower(s) {
	case "none":
		*a = ActionNone
	case "stopcontainer":
		*a = ActionStopContainer
	case "stopcompose":
		*a = ActionStopCompose
	default:
		return fmt.Errorf("invalid shutdown action %q", s)
	}

	return nil
}

func (a ShutdownAction) String() string {
	switch a {
	case ActionStopContainer:
		return "stopContainer"
	case ActionStopCompose:
		return "stopCompose"
	default:
		return "none"
	}
}
