package datarecording

import (
	"os"
	"strings"
	"time"

	"github.com/rs/xid"
)

const execTableName = "exec_info"

type execInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the simulator was run.
type ExecRecorder struct {
	runID    string
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates the exec_info table and returns a recorder that
// writes into it.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		runID:    xid.New().String(),
		recorder: recorder,
	}

	recorder.CreateTable(execTableName, execInfo{})

	return e
}

// RunID returns the unique ID of this run.
func (e *ExecRecorder) RunID() string {
	return e.runID
}

// Start logs the start of the current execution.
func (e *ExecRecorder) Start() {
	e.Add("Run ID", e.runID)
	e.Add("Start Time", now())
	e.Add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Add("Working Directory", cwd)
}

// Add records an extra property of the execution.
func (e *ExecRecorder) Add(property, value string) {
	e.entries = append(e.entries, execInfo{property, value})
}

// End writes the collected properties along with the end time.
func (e *ExecRecorder) End() {
	e.Add("End Time", now())

	for _, entry := range e.entries {
		e.recorder.InsertData(execTableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
