package ecs

import "github.com/TheBitDrifter/table"

// Config holds process-wide table configuration, mirroring warehouse's
// package-level Config so callers can still hook table-level events
// (e.g. to drive external bookkeeping on row moves) without threading a
// parameter through every page build.
var Config config

type config struct {
	tableEvents table.TableEvents
}

func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}
