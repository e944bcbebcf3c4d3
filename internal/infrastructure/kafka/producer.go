package kafka

import (
	"context"
	"time"

	"github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события корзины. Подписывается на Store и не блокирует dispatch:
// запись асинхронная, ошибки доставки только логируются.
type Producer struct {
	writer messageWriter
	logger logger.Logger
	now    func() time.Time
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s, messages dropped: %d", err.Error(), len(messages))
			}
		},
	}

	return newProducer(writer, logger)
}

func newProducer(writer messageWriter, logger logger.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// OnDispatch — слушатель Store.
func (p *Producer) OnDispatch(prev, next *state.State, action state.Action) {
	event, ok := newCartEvent(prev, next, action, p.now())
	if !ok {
		return
	}

	value, err := event.payload()
	if err != nil {
		p.logger.Warnf("cart event encode failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return
	}

	if err := p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   event.key(),
		Value: value,
	}); err != nil {
		p.logger.Warnf("cart event publish failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
