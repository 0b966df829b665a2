package httpadapter

import _ "embed"

//go:embed dashboard.html
var dashboardHTML []byte
