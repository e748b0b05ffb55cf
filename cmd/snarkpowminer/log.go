package main

import (
	"github.com/snarkpow/snarkpowd/infrastructure/logger"
	"github.com/snarkpow/snarkpowd/util/panics"
)

var (
	log   = logger.RegisterSubSystem("MINR")
	spawn = panics.GoroutineWrapperFunc(log)
)

func initLog(logFile, errLogFile, logLevel string) error {
	logger.InitLog(logFile, errLogFile)
	return logger.ParseAndSetLogLevels(logLevel)
}
