package database

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/hearth-im/hearth"
)

// sessionConnector decorates an engine's connector so that the engine's
// OnNewConnection hook runs on every connection it hands out. The binding
// is fixed at construction; callers cannot bypass or replace it.
type sessionConnector struct {
	base   driver.Connector
	engine hearth.Engine
}

func (s *sessionConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := s.base.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.engine.OnNewConnection(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize %s connection: %w", s.engine.Kind(), err)
	}
	return conn, nil
}

func (s *sessionConnector) Driver() driver.Driver { return s.base.Driver() }
