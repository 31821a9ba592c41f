// Package config loads and validates the application configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// (config.yaml or configs/config.yaml), then POLYSCAN_* environment
// variables, with the environment taking precedence. All directory layout
// decisions live in Paths so the pipeline stages agree on where scan output,
// normalized files and rendered diagrams go.
package config
