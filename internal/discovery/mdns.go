// Package discovery advertises the drawing server on the local network so
// touch clients can find it.
package discovery

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service type.
const ServiceType = "_airsketch._tcp"

// Advertiser is a running mDNS responder.
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces the service on port until Shutdown is called.
func Advertise(port int) (*Advertiser, error) {
	service, err := NewService(port)
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}

	return &Advertiser{server: server}, nil
}

// NewService builds the mDNS zone for this host.
func NewService(port int) (*mdns.MDNSService, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"airsketch", "path=/"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	return service, nil
}

// Shutdown stops advertising.
func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}
