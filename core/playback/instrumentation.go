package playback

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-espeak/core/playback"

var logger = otelslog.NewLogger(scopeName)
