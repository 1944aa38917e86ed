package gradecli

// Options holds the command-line settings of one invocation.
type Options struct {
	Edition   string // Edition id; empty uses the default
	Sex       string // m, male, f or female
	Age       int    // Runner age
	Event     string // Event name, e.g. "5 km"
	Time      string // Finish time, mm:ss or h:mm:ss
	Targets   string // Comma-separated projection targets
	CustomSex string // Sex for the custom target
	CustomAge int    // Age for the custom target
	Ages      string // Comma-separated ages for the age_table target

	DataDir string // Read standards from this directory
	DataURL string // Read standards from this base URL
	Locale  string // Percent formatting locale

	JSON        bool // Print results as JSON
	Interactive bool // Read queries from stdin
}
