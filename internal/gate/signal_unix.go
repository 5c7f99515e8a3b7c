//go:build unix

package gate

import (
	"os"
	"syscall"
)

// TriggerSignal is the signal an external controller sends to start a trial.
var TriggerSignal os.Signal = syscall.SIGUSR1

// TriggerSignalName is TriggerSignal as written on a kill command line.
const TriggerSignalName = "SIGUSR1"
