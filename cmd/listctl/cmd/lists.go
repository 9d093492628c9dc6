package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ssargent/listpositions/pkg/di"
	"github.com/ssargent/listpositions/pkg/itemlist"
)

// loadList opens the named list against container's Order, rehydrating it
// from its last persisted snapshot if one exists. Mirrors pkg/api.Server's
// listFor, minus the in-memory cache a long-lived server needs.
func loadList(c *di.Container, name string) (*itemlist.List[json.RawMessage], error) {
	l := itemlist.New[json.RawMessage](c.Order)

	data, err := c.Persist.LoadListSnapshot(name)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot for list %q: %w", name, err)
	}
	if data == nil {
		return l, nil
	}

	var snap itemlist.Snapshot[json.RawMessage]
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot for list %q: %w", name, err)
	}
	if err := l.Load(snap); err != nil {
		return nil, fmt.Errorf("replaying snapshot for list %q: %w", name, err)
	}
	return l, nil
}

func saveList(c *di.Container, name string, l *itemlist.List[json.RawMessage]) error {
	data, err := json.Marshal(l.Save())
	if err != nil {
		return fmt.Errorf("marshaling snapshot for list %q: %w", name, err)
	}
	return c.Persist.SaveListSnapshot(name, data)
}

func saveOrder(c *di.Container) error {
	return c.Persist.SaveOrderMeta(c.Config.ReplicaID, c.Order.Save())
}
