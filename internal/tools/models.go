package tools

import (
	"fmt"
	"slices"
)

// Specification describes one action the model may request. The set of
// specifications is static; it is defined once at startup and never mutated
// while a session is running.
type Specification struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Inputs      *InputSchema `json:"input_schema,omitempty"`
}

type InputSchema struct {
	Type       string                     `json:"type"`
	Required   []string                   `json:"required"`
	Properties map[string]ParameterObject `json:"properties"`
}

type ParameterObject struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// Input holds the decoded call parameters. Values are kept as raw strings at
// decode time, typing/validation happens in the dispatcher.
type Input map[string]string

// Call is a decoded function call. The name has not yet been validated
// against the registered specifications.
type Call struct {
	Name   string `json:"name"`
	Inputs Input  `json:"inputs,omitempty"`
}

// PrettyPrint the call, showing name and what input params is used
// on a concise way. Keys are sorted for deterministic output.
func (c Call) PrettyPrint() string {
	keys := make([]string, 0, len(c.Inputs))
	for k := range c.Inputs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	paramStr := ""
	for i, k := range keys {
		paramStr += fmt.Sprintf("'%v': '%v'", k, c.Inputs[k])
		if i < len(keys)-1 {
			paramStr += ","
		}
	}
	return fmt.Sprintf("Call: '%s', inputs: [ %s ]", c.Name, paramStr)
}
