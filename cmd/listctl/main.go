// Command listctl runs a CRDT list-position replica: a REST server for
// exchanging order metadata and list content with other replicas, plus
// local commands for bootstrapping, inspecting and editing a replica's
// data without a server running.
package main

import "github.com/ssargent/listpositions/cmd/listctl/cmd"

func main() {
	cmd.Execute()
}
