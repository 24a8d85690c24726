package snowflake

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake"
)

// epoch anchors the id space; ids sort roughly by creation time from here.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generator issues unique serials for bill codes. Safe for concurrent use.
type Generator struct {
	node *sonyflake.Sonyflake
}

// NewGenerator creates a Generator bound to one machine id. Two instances
// sharing a machine id can collide, so the id must be unique per process
// across the deployment.
func NewGenerator(machineID uint16) (*Generator, error) {
	node := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: epoch,
		MachineID: func() (uint16, error) { return machineID, nil },
	})
	if node == nil {
		return nil, fmt.Errorf("invalid sonyflake settings")
	}
	return &Generator{node: node}, nil
}

// GetID returns the next serial.
func (g *Generator) GetID() (uint64, error) {
	return g.node.NextID()
}
