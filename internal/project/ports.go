package project

import (
	"net"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
)

// resolveApplicationPort returns the application port for a run. A
// previously created container carries the chosen port as a label, which
// keeps the port stable across restarts; otherwise a fresh ephemeral port
// is requested from the OS.
func (p *Project) resolveApplicationPort(existing *container.Summary) (int, error) {
	if existing != nil {
		if value, ok := existing.Labels[labelAppPortKey]; ok {
			port, err := strconv.Atoi(value)
			if err == nil {
				return port, nil
			}
			log.Warn("Ignoring unparseable application port label", "value", value)
		}
	}

	return requestOpenPort()
}

// requestOpenPort asks the OS for a free TCP port by binding an ephemeral
// listener and closing it immediately. Best effort: the port can be taken
// again between the close and the container binding it.
func requestOpenPort() (int, error) {
	listener, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		return 0, ErrNoFreePort
	}
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, ErrNoFreePort
	}

	return addr.Port, nil
}
