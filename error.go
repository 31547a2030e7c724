package localecat

import "fmt"

// ConfigError reports a structural configuration problem (malformed locale,
// missing default, unknown backend kind). It is returned synchronously by
// NewLocaleCatalog or at the start of Load and is not recoverable without
// fixing the configuration.
type ConfigError struct {
	Field  string
	Reason string
	err    error
}

func (ce *ConfigError) Error() string {
	if ce.err != nil {
		return fmt.Sprintf("localecat config: %s: %s: %v", ce.Field, ce.Reason, ce.err)
	}
	return fmt.Sprintf("localecat config: %s: %s", ce.Field, ce.Reason)
}

func (ce *ConfigError) Unwrap() error {
	return ce.err
}

func newConfigError(field string, reason string, err error) error {
	return &ConfigError{Field: field, Reason: reason, err: err}
}

// UnsupportedLocaleError is returned by Load when the requested locale is not
// among the declared locales. It is raised before any fetch is attempted;
// callers can recover by choosing a supported locale.
type UnsupportedLocaleError struct {
	Locale string
}

func (ue *UnsupportedLocaleError) Error() string {
	return fmt.Sprintf("localecat: unsupported locale %q", ue.Locale)
}
