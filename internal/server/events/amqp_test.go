package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	msg           amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	kinds      []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = append(f.declared, name)
	f.kinds = append(f.kinds, kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeConn struct{ closed bool }

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	conn := &fakeConn{}

	p, err := newAMQPPublisher(conn, ch, "ledger", logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ledger"}, ch.declared)
	assert.Equal(t, []string{"topic"}, ch.kinds)

	e := New(TransactionCreated, "u1", "tx1")
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "ledger", got.exchange)
	assert.Equal(t, "transaction.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, uint8(amqp091.Persistent), got.msg.DeliveryMode)

	var decoded Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, "u1", decoded.UserID)
	assert.Equal(t, "tx1", decoded.EntityID)
	assert.True(t, e.OccurredAt.Equal(decoded.OccurredAt))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.True(t, conn.closed)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	t.Run("declare", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}
		_, err := newAMQPPublisher(&fakeConn{}, ch, "ledger", logging.Nop{})
		require.Error(t, err)
		assert.True(t, ch.closed)
	})

	t.Run("publish", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}
		p, err := newAMQPPublisher(&fakeConn{}, ch, "ledger", logging.Nop{})
		require.NoError(t, err)

		err = p.Publish(context.Background(), New(BudgetDeleted, "u", "b"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "budget.deleted")
	})
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), New(BudgetCreated, "u", "b")))
	assert.NoError(t, p.Close())
}
