package simulated

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-espeak/core/engine/simulated"

var logger = otelslog.NewLogger(scopeName)
