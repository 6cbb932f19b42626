// ABOUTME: Embedded filesystem for bundled blueprint graphs.
// ABOUTME: Exports BlueprintFS so seeds load without runtime filesystem paths.
package editor

import "embed"

//go:embed blueprints/*.yaml
var BlueprintFS embed.FS
