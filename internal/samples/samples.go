// Package samples holds notebooks bundled with the binary.
package samples

import _ "embed"

// WelcomeName is the name of the welcome notebook.
const WelcomeName = "Welcome"

//go:embed welcome.txt
var Welcome string
