// Package events bus en proceso (Watermill gochannel) para los eventos de cambio de pieza.
//
// Publicar es fire-and-forget para el núcleo: los suscriptores corren en goroutines propias
// y un handler que falla se reintenta con backoff y luego se descarta con un log de error.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/jhoicas/assistencia-api/internal/application/inventory"
)

// TopicPartChanged tópico de los eventos PartChanged.
const TopicPartChanged = "parts.changed"

const (
	maxRetries      = 3
	retryBaseDelay  = 100 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

var _ inventory.EventPublisher = (*Bus)(nil)

// Bus pub/sub en memoria sobre Watermill.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// NewBus crea el bus. Los mensajes no se persisten: un suscriptor que llega tarde no los ve.
func NewBus(log zerolog.Logger) *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, &zerologAdapter{log: log})
	return &Bus{pubsub: pubsub, log: log}
}

// PublishPartChanged serializa el evento como JSON y lo publica en TopicPartChanged.
func (b *Bus) PublishPartChanged(ctx context.Context, evt inventory.PartChanged) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("events: marshal PartChanged: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("part_id", evt.PartID)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(TopicPartChanged, msg); err != nil {
		return fmt.Errorf("events: publish to %s: %w", TopicPartChanged, err)
	}
	return nil
}

// SubscribePartChanged registra handler para cada PartChanged. Corre hasta que ctx se cancele
// o el bus se cierre.
func (b *Bus) SubscribePartChanged(ctx context.Context, handler func(context.Context, inventory.PartChanged) error) error {
	ch, err := b.pubsub.Subscribe(ctx, TopicPartChanged)
	if err != nil {
		return fmt.Errorf("events: subscribe to %s: %w", TopicPartChanged, err)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range ch {
			var evt inventory.PartChanged
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				b.log.Error().Err(err).Str("message_id", msg.UUID).Msg("events: payload inválido, se descarta")
				msg.Ack()
				continue
			}
			if err := b.handleWithRetry(ctx, evt, handler); err != nil {
				b.log.Error().Err(err).Str("part_id", evt.PartID).Msg("events: handler falló, se descarta el evento")
			}
			// Ack siempre: con gochannel un Nack reentrega de inmediato y bloquea el tópico.
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) handleWithRetry(ctx context.Context, evt inventory.PartChanged, handler func(context.Context, inventory.PartChanged) error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, evt); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		b.log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", delay).Msg("events: handler falló, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler falló después de %d intentos: %w", maxRetries, err)
}

// Close cierra el bus y espera a los handlers en curso.
func (b *Bus) Close() error {
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("events: close: %w", err)
	}
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error().Msg("events: timeout esperando handlers en curso")
	}
	return nil
}

// zerologAdapter conecta zerolog con watermill.LoggerAdapter.
type zerologAdapter struct {
	log zerolog.Logger
}

func (a *zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (a *zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (a *zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (a *zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zerologAdapter{log: a.log.With().Fields(map[string]any(fields)).Logger()}
}
