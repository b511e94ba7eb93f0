package tools

// ShowNotification surfaces a transient notification in the host application.
var ShowNotification = Specification{
	Name:        "show_notification",
	Description: "Show a notification to the user.",
	Inputs: &InputSchema{
		Type:     "object",
		Required: []string{"message"},
		Properties: map[string]ParameterObject{
			"message": {
				Type:        "string",
				Description: "The notification body text.",
			},
			"title": {
				Type:        "string",
				Description: "Optional notification title. Defaults to 'Notification'.",
			},
			"type": {
				Type:        "string",
				Description: "Optional notification kind. Defaults to 'info'.",
				Enum:        []string{"info", "success", "warning", "error"},
			},
		},
	},
}
