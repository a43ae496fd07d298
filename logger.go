package zkcoord

import (
	"log"
)

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type defaultLoggerImpl struct {
}

func (*defaultLoggerImpl) Infof(format string, args ...any) {
	log.Printf("[INFO] [ZKCOORD] "+format, args...)
}

func (*defaultLoggerImpl) Warnf(format string, args ...any) {
	log.Printf("[WARN] [ZKCOORD] "+format, args...)
}
