package proto

import (
	"fmt"
	"slices"
	"strings"

	"github.com/edvinh/lui/internal/tools"
)

// SystemPrompt builds the developer prompt which teaches the model the
// available actions and the exact call grammar. Decoding only works if the
// model has been instructed with this contract, so the grammar line below
// must stay in sync with the codec.
func SystemPrompt(specs []tools.Specification) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant embedded in an application. ")
	sb.WriteString("You can answer in plain text, or perform one of the following actions for the user:\n\n")
	for _, spec := range specs {
		fmt.Fprintf(&sb, "- %v: %v\n", spec.Name, spec.Description)
		if spec.Inputs == nil {
			continue
		}
		params := make([]string, 0, len(spec.Inputs.Properties))
		for name := range spec.Inputs.Properties {
			params = append(params, name)
		}
		slices.Sort(params)
		for _, name := range params {
			param := spec.Inputs.Properties[name]
			requirement := "optional"
			if slices.Contains(spec.Inputs.Required, name) {
				requirement = "required"
			}
			fmt.Fprintf(&sb, "    - %v (%v, %v): %v", name, param.Type, requirement, param.Description)
			if len(param.Enum) > 0 {
				fmt.Fprintf(&sb, " Allowed values: %v.", strings.Join(param.Enum, ", "))
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nWhen the user asks you to perform an action, respond with exactly one function call in exactly this format, and nothing else:\n")
	fmt.Fprintf(&sb, "%vcall:FUNCTION_NAME{param1:%vvalue1%v,param2:%vvalue2%v}%v\n",
		StartMarker, escapeOpen, escapeOpen, escapeOpen, escapeOpen, EndMarker)
	sb.WriteString("Otherwise, answer in plain text.")
	return sb.String()
}
