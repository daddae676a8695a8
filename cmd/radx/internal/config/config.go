// Package config holds the global CLI flags shared by every radx subcommand.
package config

// GlobalConfig is flattened into CLI and passed to each command's Run
// method by kong.
type GlobalConfig struct {
	LogLevel string `name:"log-level" enum:"trace,debug,info,warn,error,fatal" default:"info" help:"Logging verbosity"`
	Pretty   bool   `name:"pretty" default:"true" negatable:"" help:"Use human-readable log output instead of JSON"`
	Debug    bool   `name:"debug" help:"Include caller location in log output"`
}
