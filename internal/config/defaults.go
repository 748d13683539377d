package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"out_dir":          ".",
		"report_formats":   []string{"json", "markdown"},
		"fail_on_warnings": false,
		"max_violations":   0,
		"show_progress":    true,
	}
}
