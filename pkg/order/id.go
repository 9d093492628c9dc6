package order

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// NewNodeIDFunc mints a fresh, globally-unique bunch id. The default
// implementation (see defaultNewNodeID) pairs the replica id with a ksuid,
// the same generator the teacher's pkg/bptree uses for record ids.
type NewNodeIDFunc func() string

// defaultNewNodeID returns a NewNodeIDFunc scoped to replicaID.
func defaultNewNodeID(replicaID string) NewNodeIDFunc {
	return func() string {
		return fmt.Sprintf("%s_%s", replicaID, ksuid.New().String())
	}
}
