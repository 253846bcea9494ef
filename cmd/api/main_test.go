package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeConn struct{ closed bool }

func (c *fakeConn) IsClosed() bool { return c.closed }

func TestConnectionCheck(t *testing.T) {
	conn := &fakeConn{}
	check := connectionCheck("rabbitmq", conn)

	assert.Equal(t, "rabbitmq", check.Name)
	assert.NoError(t, check.Probe(context.Background()))

	conn.closed = true
	assert.ErrorIs(t, check.Probe(context.Background()), errConnectionClosed)
}
