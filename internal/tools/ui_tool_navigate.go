package tools

// NavigateToScreen moves the host application to a named screen.
var NavigateToScreen = Specification{
	Name:        "navigate_to_screen",
	Description: "Navigate to a screen within the application.",
	Inputs: &InputSchema{
		Type:     "object",
		Required: []string{"screen"},
		Properties: map[string]ParameterObject{
			"screen": {
				Type:        "string",
				Description: "Identifier of the screen to navigate to, for example 'home' or 'settings'.",
			},
		},
	},
}
