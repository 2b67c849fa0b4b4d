package project

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/bnema/devc/internal/config"
)

// spawnApplication starts the companion application from the user settings
// on the host, in the project directory. The returned channel delivers the
// process exit exactly once.
func (p *Project) spawnApplication(d *config.DevContainer, rctx *runContext) (<-chan error, error) {
	args := p.Settings.Application.Cmd.ToArgs()
	log.Info("Spawning application", "cmd", args)

	var cmd *exec.Cmd
	if len(args) == 1 {
		cmd = exec.Command("/bin/sh", "-c", args[0])
	} else {
		cmd = exec.Command(args[0], args[1:]...)
	}

	cmd.Dir = p.Path
	cmd.Env = p.applicationEnvs(d, rctx)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrApplicationSpawn, err)
	}

	exit := make(chan error, 1)
	go func() {
		exit <- cmd.Wait()
	}()

	return exit, nil
}

// applicationEnvs extends the current process environment with the
// descriptor's remoteEnv and the synthetic project variables.
func (p *Project) applicationEnvs(d *config.DevContainer, rctx *runContext) []string {
	envs := os.Environ()

	appendSorted := func(m map[string]string) {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			envs = append(envs, key+"="+m[key])
		}
	}

	appendSorted(d.RemoteEnv)
	appendSorted(p.devcontainerEnvs(rctx))

	return envs
}
