package tools

// ChangeTheme switches the host application between its light and dark
// palettes, or toggles the current one.
var ChangeTheme = Specification{
	Name:        "change_theme",
	Description: "Change the application color theme.",
	Inputs: &InputSchema{
		Type:     "object",
		Required: []string{"theme"},
		Properties: map[string]ParameterObject{
			"theme": {
				Type:        "string",
				Description: "The theme to switch to. Use 'toggle' to flip between light and dark.",
				Enum:        []string{"light", "dark", "toggle"},
			},
		},
	},
}
