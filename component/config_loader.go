package component

// ConfigLoader configuration loader interface
//
// Packages read their own configuration section through this interface instead of
// depending on a concrete loader (config.Loader implements it).
type ConfigLoader interface {
	// Get configuration item
	Get(key string) interface{}

	// UnmarshalKey deserializes one configuration section into a struct
	//
	// Example:
	//   var cfg lifecycle.Config
	//   if err := loader.UnmarshalKey("singleton", &cfg); err != nil {
	//       return err
	//   }
	UnmarshalKey(key string, v interface{}) error

	// GetString Get string configuration
	GetString(key string) string

	// GetBool Get boolean configuration
	GetBool(key string) bool

	// IsSet Check if the configuration item exists
	IsSet(key string) bool
}
