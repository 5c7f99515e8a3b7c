//go:build !unix

package gate

import "os"

// TriggerSignal is the signal an external controller sends to start a trial.
var TriggerSignal os.Signal = os.Interrupt

// TriggerSignalName is TriggerSignal as written on a kill command line.
const TriggerSignalName = "SIGINT"
