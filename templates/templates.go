// Package templates holds the default site templates compiled into the binary.
package templates

import "embed"

//go:embed main/*.twig
var FS embed.FS
