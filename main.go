// main is the entry point for the seisread CLI.
package main

import (
	"github.com/huangsam/seisread/cmd"
	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/log"
	"github.com/huangsam/seisread/internal/runstore"
)

func main() {
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	runstore.CloseStores()
	log.Sync()

	if err != nil {
		condition, code := cmd.ExitStatus(err)
		contract.LogFatalCode(condition, err, code)
	}
}
