package ipc

// StageConfig names one pipeline stage's enablement and debug flag, the
// granularity the worker reports /<stage>/start and /<stage>/done at
// (§4.4 point 3: "if that stage's debug flag is set").
type StageConfig struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Debug   bool   `json:"debug"`
}

// BootstrapConfig is the JSON body the frontend serves at
// "GET /bootstrap/config" (§4.4 point 2): "the ordered list of enabled
// stages with per-stage flags", plus whatever else the frontend needs to
// hand the worker before it starts compiling.
type BootstrapConfig struct {
	EntryPath    string        `json:"entryPath"`
	OutDir       string        `json:"outDir"`
	KeepAssembly bool          `json:"keepAssembly"`
	ListIR       bool          `json:"listIr"`
	ExitCode     bool          `json:"exitCode"`
	ProgramArgs  []string      `json:"programArgs"`
	Stages       []StageConfig `json:"stages"`
}

// DefaultStages is the fixed pipeline order this compiler runs: lex is
// folded into parse (the lexer has no stage boundary of its own), bind
// resolves names/types, ir lowers the bound tree, codegen emits and
// assembles, link produces the executable, execute runs it.
func DefaultStages() []StageConfig {
	names := []string{"parse", "bind", "ir", "codegen", "link", "execute"}
	stages := make([]StageConfig, len(names))
	for i, n := range names {
		stages[i] = StageConfig{Name: n, Enabled: true}
	}
	return stages
}

// ErrorPayload is the JSON body posted to a stage-specific errors path
// (§4.4 point 4, §7).
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// PanicPayload is the JSON body posted to "/panic" after an error payload,
// terminating the worker's side of the handshake.
type PanicPayload struct {
	Message string `json:"message"`
}
