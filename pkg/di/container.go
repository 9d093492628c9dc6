// Package di wires a listctl node together: configuration, durable
// storage, the replica's Order, and the HTTP API server that fronts it.
package di

import (
	"fmt"

	"github.com/ssargent/listpositions/pkg/api"
	"github.com/ssargent/listpositions/pkg/config"
	"github.com/ssargent/listpositions/pkg/order"
	"github.com/ssargent/listpositions/pkg/persist"
)

// Container holds every long-lived dependency a running node needs, built
// once at startup and torn down together via Close.
type Container struct {
	Config  *config.Config
	Persist *persist.Manager
	Order   *order.Order
}

// NewContainer loads cfg's data directory, opens durable storage, and
// rehydrates (or creates) the replica's Order from its last saved
// metadata.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg.ReplicaID == "" {
		return nil, fmt.Errorf("di: config.ReplicaID must be set")
	}

	mgr, err := persist.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("di: opening persist manager: %w", err)
	}

	ord := order.New(cfg.ReplicaID)
	metas, err := mgr.LoadOrderMeta(cfg.ReplicaID)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("di: loading order metadata: %w", err)
	}
	if metas != nil {
		if err := ord.Receive(metas); err != nil {
			mgr.Close()
			return nil, fmt.Errorf("di: replaying order metadata: %w", err)
		}
	}

	return &Container{Config: cfg, Persist: mgr, Order: ord}, nil
}

// NewServer builds the HTTP API server around the container's Order and
// Persist manager, ready to be routed with api.NewRouter.
func (c *Container) NewServer() *api.Server {
	metrics := api.NewMetrics()
	apiKey := c.Config.Security.APIKey
	return api.NewServer(c.Config.ReplicaID, c.Order, c.Persist, api.ServerConfig{
		Port:   c.Config.Port,
		APIKey: apiKey,
	}, metrics)
}

// Close flushes and closes every owned resource.
func (c *Container) Close() error {
	if c.Persist != nil {
		return c.Persist.Close()
	}
	return nil
}
