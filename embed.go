// //go:embed only reaches files below the declaring package, so the data
// directory is embedded here and handed to pkg/embedded from main.
package main

import "embed"

//go:embed data/*.yaml
var dataFS embed.FS
