package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"specs_dir":  "./specs",
		"plans_dir":  "./plans",
		"tasks_dir":  "./tasks",
		"extensions": []string{".md"},
		"ignore":     []string{"README.md"},
		"format":     "text",
		"no_color":   false,
		"verbose":    false,
	}
}
