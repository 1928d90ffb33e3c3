package fanout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

type publisherFunc func(context.Context, models.CounterReading) error

func (f publisherFunc) Publish(ctx context.Context, r models.CounterReading) error {
	return f(ctx, r)
}

func TestMulti_PublishesToEveryPathDespiteFailures(t *testing.T) {
	var delivered int
	failing := publisherFunc(func(context.Context, models.CounterReading) error {
		return errors.New("relay down")
	})
	counting := publisherFunc(func(context.Context, models.CounterReading) error {
		delivered++
		return nil
	})

	m := Multi{failing, counting, counting}
	err := m.Publish(context.Background(), models.CounterReading{InCount: 1})

	assert.Error(t, err)
	assert.Equal(t, 2, delivered)
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi{}.Publish(context.Background(), models.CounterReading{}))
}
