package trace

// Level controls the verbosity of replay tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelRuns captures one record per replayed trace.
	LevelRuns Level = "runs"
	// LevelAccesses captures run records plus one record per cache access.
	LevelAccesses Level = "accesses"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:     true,
	LevelRuns:     true,
	LevelAccesses: true,
	"":            true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// IncludesRuns returns true if run records should be collected at this level.
func (l Level) IncludesRuns() bool {
	return l == LevelRuns || l == LevelAccesses
}

// IncludesAccesses returns true if per-access records should be collected at this level.
func (l Level) IncludesAccesses() bool {
	return l == LevelAccesses
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// SimulationTrace collects replay records during a simulation.
type SimulationTrace struct {
	Config   Config
	Runs     []RunRecord
	Accesses []AccessRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config Config) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Runs:     make([]RunRecord, 0),
		Accesses: make([]AccessRecord, 0),
	}
}

// RecordRun appends a per-trace replay record.
func (st *SimulationTrace) RecordRun(record RunRecord) {
	st.Runs = append(st.Runs, record)
}

// RecordAccess appends a per-access record.
func (st *SimulationTrace) RecordAccess(record AccessRecord) {
	st.Accesses = append(st.Accesses, record)
}
