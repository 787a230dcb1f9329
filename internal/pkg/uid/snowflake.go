package uid

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator whose node number comes from NODE_ID
// (0..1023). Unset means node 0.
func NewSnowflake() (*Snowflake, error) {
	var nodeID int64
	if raw := os.Getenv("NODE_ID"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("uid: parse NODE_ID: %w", err)
		}
		nodeID = n
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
