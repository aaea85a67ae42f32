package instance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
)

// Process is the subset of ps.Process the scan needs.
type Process interface {
	Pid() int
	Executable() string
}

// Lister returns the processes running on the machine.
type Lister func() ([]Process, error)

// SystemProcesses lists processes through go-ps.
func SystemProcesses() ([]Process, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	result := make([]Process, 0, len(processList))
	for _, process := range processList {
		result = append(result, process)
	}

	return result, nil
}

// CurrentExecutable returns the base name of the running binary.
func CurrentExecutable() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Base(path)
}

// FindOthers returns the PIDs of processes named executable, except selfPID.
// Names are compared case-insensitively on Windows.
func FindOthers(list Lister, executable string, selfPID int) ([]int, error) {
	if executable == "" {
		return nil, nil
	}

	processList, err := list()
	if err != nil {
		return nil, err
	}

	var pids []int

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if !sameExecutable(process.Executable(), executable) {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}

// WarnIfRunning logs a warning when another process of this binary is alive.
// Two writers on one data file overwrite each other's lists.
func WarnIfRunning(ctx context.Context, dataFile string) {
	pids, err := FindOthers(SystemProcesses, CurrentExecutable(), os.Getpid())
	if err != nil {
		logger.DebugKV(ctx, "Unable to scan processes", "error", err)

		return
	}

	if len(pids) == 0 {
		return
	}

	logger.WarnKV(ctx, "Another countdown process is running", "pids", pids, "data_file", dataFile)
}

func sameExecutable(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}

	return a == b
}
