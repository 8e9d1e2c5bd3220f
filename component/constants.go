package component

// Token separators
const (
	ModuleSeparator    = "#" // relative-module-path#component-name
	QualifierSeparator = "/" // module-name/component-name
)

// Logger module names
const (
	LoggerLifecycle = "singleton"
	LoggerCLI       = "singletonctl"
)
