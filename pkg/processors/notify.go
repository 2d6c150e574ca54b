package processors

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Publisher sends one message to a broker.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
	Close() error
}

// Event is the JSON message sent for each file.
type Event struct {
	RunID  string   `json:"run_id"`
	Path   string   `json:"path"`
	Match  string   `json:"match"`
	Values []string `json:"values"`
	At     string   `json:"at"`
}

// NotifyOptions configures the notify processor.
type NotifyOptions struct {
	// Backend is "redis" or "amqp".
	Backend string `koanf:"backend"`
	URL     string `koanf:"url"`
	// Channel is the redis channel, or the amqp routing key.
	Channel  string `koanf:"channel"`
	Exchange string `koanf:"exchange"`
	// Rate caps events per second; zero disables the limit.
	Rate  float64 `koanf:"rate"`
	Burst int     `koanf:"burst"`
}

// Notify publishes an Event per file to redis (PUBLISH) or an AMQP exchange.
type Notify struct {
	Base
	opts      NotifyOptions
	publisher Publisher
	limiter   *rate.Limiter
}

func NewNotify(source types.InputFileSource, opts NotifyOptions) (*Notify, error) {
	switch opts.Backend {
	case "redis", "amqp":
	default:
		return nil, errors.Newf(errors.ErrPluginOptions, "unknown notify backend %q (want redis or amqp)", opts.Backend)
	}
	if opts.URL == "" {
		return nil, errors.New(errors.ErrPluginOptions, "notify needs a url")
	}
	if opts.Channel == "" {
		opts.Channel = "sifter.events"
	}
	n := &Notify{Base: NewBase("notify", source, types.ProducesNever), opts: opts}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	return n, nil
}

// WithPublisher replaces the broker connection made on Init.
func (n *Notify) WithPublisher(p Publisher) *Notify {
	n.publisher = p
	return n
}

func (n *Notify) Init(rc *types.RunContext) error {
	if err := n.Base.Init(rc); err != nil {
		return err
	}
	if n.publisher != nil {
		return nil
	}

	var err error
	switch n.opts.Backend {
	case "redis":
		n.publisher, err = newRedisPublisher(n.opts.URL, n.opts.Channel)
	case "amqp":
		n.publisher, err = newAMQPPublisher(n.opts.URL, n.opts.Exchange, n.opts.Channel)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrPluginInit, "cannot connect to %s", n.opts.Backend)
	}
	return nil
}

func (n *Notify) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, func(ctx context.Context, file string, in types.ProcessInput) (types.ProcessingResult, error) {
		if n.limiter != nil {
			if err := n.limiter.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return types.ProcessingResult{}, ctxErr
				}
				return types.ProcessingResult{}, errors.Wrap(err, errors.ErrProcessorRun, "rate limiter")
			}
		}

		payload, err := json.Marshal(Event{
			RunID:  n.runID,
			Path:   file,
			Match:  in.Match.Type.String(),
			Values: in.Values,
			At:     time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return types.ProcessingResult{}, errors.Wrap(err, errors.ErrInternal, "cannot encode event")
		}
		if err := n.publisher.Publish(ctx, payload); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return types.ProcessingResult{}, ctxErr
			}
			return types.ProcessingResult{}, errors.Wrapf(err, errors.ErrProcessorRun, "cannot publish event for %s", file)
		}
		return types.Success("notified " + n.opts.Channel), nil
	})
}

func (n *Notify) Cleanup() error {
	if n.publisher == nil {
		return nil
	}
	err := n.publisher.Close()
	n.publisher = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrPluginCleanup, "cannot close publisher")
	}
	return nil
}

type redisPublisher struct {
	client  *redis.Client
	channel string
}

func newRedisPublisher(url, channel string) (*redisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisPublisher{client: client, channel: channel}, nil
}

func (p *redisPublisher) Publish(ctx context.Context, payload []byte) error {
	return p.client.Publish(ctx, p.channel, payload).Err()
}

func (p *redisPublisher) Close() error { return p.client.Close() }

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	key      string
}

func newAMQPPublisher(url, exchange, key string) (*amqpPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if exchange == "" {
		// default exchange routes by queue name
		if _, err := ch.QueueDeclare(key, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange, key: key}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, payload []byte) error {
	return p.ch.PublishWithContext(ctx, p.exchange, p.key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        payload,
	})
}

func (p *amqpPublisher) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}

func init() {
	plugins.RegisterProcessor("notify", "publishes a JSON event per file to redis or an AMQP broker", func(o plugins.Options) (types.Processor, error) {
		var opts NotifyOptions
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewNotify(o.Input, opts)
	})
}
