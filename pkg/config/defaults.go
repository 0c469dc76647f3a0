package config

import "github.com/Sumatoshi-tech/permjudge/pkg/judge"

// Judge defaults.
const (
	DefaultProblem         = judge.ProblemBlockRotate
	DefaultBackend         = ""
	DefaultSeed            = 1
	DefaultCheckInvariants = false
)

// Output defaults.
const (
	DefaultOutputFormat = FormatText
	DefaultOutputColor  = true
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultSampleRatio = 1.0
)
