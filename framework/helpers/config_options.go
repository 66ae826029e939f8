package helpers

// ConfigOption is implemented by the option types that components accept as variadic
// constructor arguments, such as harness.MockEndpointOption and mockmm.ServiceOption.
type ConfigOption[T any] interface {
	// Configure applies the option to the value being constructed.
	Configure(*T) error
}

// ApplyOptions applies each option to target in order, stopping at the first error.
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	// U lets callers pass a slice of their own named option type without converting it.
	for _, o := range options {
		if err := o.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
