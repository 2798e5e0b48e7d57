package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.BaseURL != "" {
		if _, err := url.Parse(c.LLM.BaseURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid API base URL",
			})
		}
	}

	// Validate Database config
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.DataTable == "" || c.Database.CleanedTable == "" || c.Database.VictimsTable == "" {
		errors = append(errors, ValidationError{
			Field:   "database",
			Message: "table names must not be empty",
		})
	}

	// Validate Reader config
	if c.Reader.EndFile != 0 && c.Reader.EndFile < c.Reader.StartFile {
		errors = append(errors, ValidationError{
			Field:   "reader.end_file",
			Message: "end_file must not be less than start_file",
		})
	}

	if c.Reader.StartFile < 0 {
		errors = append(errors, ValidationError{
			Field:   "reader.start_file",
			Message: "start_file must be non-negative",
		})
	}

	// Validate Cleanup config
	if c.Cleanup.CallDelaySeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "cleanup.call_delay_seconds",
			Message: "call_delay_seconds must be non-negative",
		})
	}

	if c.Report.ExpectedTotal < 0 {
		errors = append(errors, ValidationError{
			Field:   "report.expected_total",
			Message: "expected_total must be non-negative",
		})
	}

	return errors
}
