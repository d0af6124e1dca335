//go:build !espeak

package espeak

import "github.com/koscakluka/ema-espeak/core/engine"

func New() (engine.Engine, error) {
	return nil, ErrUnavailable
}
