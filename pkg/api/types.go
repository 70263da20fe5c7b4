package api

// SubmitRequest is a program submission. It is accepted both as a urlencoded form and as a json document.
type SubmitRequest struct {
	Qasm   string `form:"qasm" json:"qasm" binding:"required"`
	Shots  uint   `form:"shots" json:"shots"`
	Mode   Mode   `form:"mode" json:"mode"`
	Qubits uint   `form:"qubits" json:"qubits"`
	// Vars is a json object of variable name to value, substituted into Qasm before it runs.
	Vars string `form:"vars" json:"vars"`
	// VarsRange is a json object of variable name to [low, high], used by sweep mode only.
	VarsRange  string `form:"vars_range" json:"vars_range"`
	Iterations *uint  `form:"iterations" json:"iterations"`
}

// SubmitResponse carries either a result or an error.
type SubmitResponse struct {
	Result       interface{} `json:"Result,omitempty"`
	InitPosition *uint       `json:"init_position,omitempty"`
	Error        string      `json:"Error,omitempty"`
}

// SweepIteration is the result of one step of a parameter sweep.
type SweepIteration struct {
	Iteration   uint               `json:"iteration"`
	Params      map[string]float64 `json:"params"`
	Expectation []float64          `json:"expectation"`
}

// SweepResult is the Result of a sweep mode submission.
type SweepResult struct {
	Iterations []SweepIteration `json:"iterations"`
	Objective  interface{}      `json:"objective,omitempty"`
}

// ArchiveResizeRequest changes the dimensions of the measurement archive. Absent fields are left untouched.
type ArchiveResizeRequest struct {
	Qubits   *uint `form:"qubits" json:"qubits"`
	Capacity *uint `form:"capacity" json:"capacity"`
}

// LedgerResizeRequest replaces the pool of qubits available to jobs.
type LedgerResizeRequest struct {
	Units *uint `form:"units" json:"units" binding:"required"`
}

type ArchiveStatus struct {
	Qubits     uint `json:"qubits"`
	Capacity   uint `json:"capacity"`
	CurrentPos uint `json:"current_pos"`
}

type ArchiveEntry struct {
	Position uint      `json:"position"`
	Result   BitVector `json:"Result"`
}

type LedgerStatus struct {
	Idle     uint `json:"idle"`
	Capacity uint `json:"capacity"`
}
