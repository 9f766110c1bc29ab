package config

// Application constants
const (
	AppName    = "vitiscli"
	AppVersion = "1.0.0"

	LogFileName = "vitis.log"

	// Embrapa series are complete from 2009; 2023 is the last full year
	DefaultStartYear = 2009
	DefaultEndYear   = 2023

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40
)
