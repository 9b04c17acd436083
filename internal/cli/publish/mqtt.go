package publish

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/config"
	"GlobalpingCLI/internal/shared/constants"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const qosAtLeastOnce = 1

var ErrTokenTimeout = errors.New("timed out waiting for the mqtt broker")

// client is the subset of mqtt.Client used here.
type client interface {
	IsConnected() bool
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher sends finished measurements to <topic>/<type>.
// The broker connection is opened on the first publish.
type MQTTPublisher struct {
	client client
	topic  string
	logger zerolog.Logger
}

func NewMQTTPublisher(cfg *config.MQTTConfig, logger zerolog.Logger) *MQTTPublisher {
	opts := mqtt.NewClientOptions().AddBroker(cfg.Broker)
	opts.SetClientID(fmt.Sprintf("%s_%d", cfg.ClientID, time.Now().Unix()))
	opts.SetConnectTimeout(constants.MQTTConnectTimeout)
	opts.SetAutoReconnect(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	return newMQTTPublisher(mqtt.NewClient(opts), cfg.Topic, logger)
}

func newMQTTPublisher(c client, topic string, logger zerolog.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		client: c,
		topic:  strings.TrimRight(topic, "/"),
		logger: logger,
	}
}

func (p *MQTTPublisher) Publish(ctx context.Context, result *domain.MeasurementResult) error {
	if !p.client.IsConnected() {
		if err := wait(ctx, p.client.Connect(), constants.MQTTConnectTimeout); err != nil {
			return fmt.Errorf("mqtt connection failed: %w", err)
		}
		p.logger.Debug().Msg("connected to mqtt broker")
	}

	payload := []byte(result.Raw)
	if len(payload) == 0 {
		var err error
		if payload, err = json.Marshal(result); err != nil {
			return fmt.Errorf("marshal measurement failed: %w", err)
		}
	}

	topic := p.topic + "/" + result.Type.String()
	if err := wait(ctx, p.client.Publish(topic, qosAtLeastOnce, false, payload), constants.MQTTPublishTimeout); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	p.logger.Debug().Str("id", result.ID).Str("topic", topic).Msg("published measurement")
	return nil
}

func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTokenTimeout
	}
}
