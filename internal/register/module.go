package register

import "go.uber.org/fx"

// Module provides the tab container to the fx graph.
var Module = fx.Provide(New)
