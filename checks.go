package railcheck

// Check selects which analyzers a scan runs.
type Check int

const (
	CheckPort Check = 1 << iota
	CheckHost
	CheckStartCommand
	CheckEnvVars
	CheckDatabase
	// CheckFramework runs the framework-specific module matching the
	// detected framework (Django, Flask, or FastAPI).
	CheckFramework

	ChecksAll = CheckPort | CheckHost | CheckStartCommand | CheckEnvVars |
		CheckDatabase | CheckFramework
)

func (c Check) String() string {
	switch c {
	case CheckPort:
		return "port"
	case CheckHost:
		return "host"
	case CheckStartCommand:
		return "start-command"
	case CheckEnvVars:
		return "env-vars"
	case CheckDatabase:
		return "database"
	case CheckFramework:
		return "framework"
	}

	return "unknown"
}

// Options configures a scan.
type Options struct {
	Checks Check // which checks to run (default: ChecksAll)

	// MaxFiles caps how many files each check enumerates (default 30).
	MaxFiles int

	// IgnoreDirs adds directory names to the built-in skip list.
	IgnoreDirs []string
}

// DefaultOptions returns the standard scan configuration.
func DefaultOptions() Options {
	return Options{Checks: ChecksAll}
}
