package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/jacketglow/internal/colour"
)

// Update is the outcome of one poll cycle. Err is set when the cycle
// produced no usable color (connectivity loss, bad status, malformed
// payload); Effect may be empty when the server named none.
type Update struct {
	Color  colour.Color
	Effect string
	Err    error
}

// Poller periodically fetches the target color (and optional effect name)
// from the jacket server and publishes the result on a latest-wins channel.
// It never retries within a cycle; a failure is just that cycle's outcome.
type Poller struct {
	url      string
	apiKey   string
	interval time.Duration
	client   *http.Client
	updates  chan Update
}

func New(serverURL, apiKey string, interval, timeout time.Duration) *Poller {
	return &Poller{
		url:      strings.TrimRight(serverURL, "/") + "/api/v1/color",
		apiKey:   apiKey,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		updates:  make(chan Update, 1),
	}
}

// Updates returns the channel poll outcomes are published on. Only the most
// recent unconsumed update is retained.
func (p *Poller) Updates() <-chan Update {
	return p.updates
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publish(p.fetch(ctx))
		case <-ctx.Done():
			return
		}
	}
}

// publish replaces any unconsumed update so the consumer always sees the
// latest poll result.
func (p *Poller) publish(u Update) {
	for {
		select {
		case p.updates <- u:
			return
		default:
			select {
			case <-p.updates:
			default:
			}
		}
	}
}

func (p *Poller) fetch(ctx context.Context) Update {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Update{Err: err}
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Update{Err: fmt.Errorf("poll %s: %w", p.url, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Update{Err: fmt.Errorf("poll %s: server returned %s", p.url, resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Update{Err: fmt.Errorf("poll %s: %w", p.url, err)}
	}
	u, err := parsePayload(body)
	if err != nil {
		log.Debug().Err(err).Str("body", string(body)).Msg("bad poll payload")
		return Update{Err: err}
	}
	return u
}

func parsePayload(body []byte) (Update, error) {
	var payload struct {
		Color struct {
			RGB []int `json:"rgb"`
		} `json:"color"`
		Effect string `json:"effect"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Update{}, fmt.Errorf("malformed payload: %w", err)
	}
	if len(payload.Color.RGB) != 3 {
		return Update{}, fmt.Errorf("payload has %d color channels, want 3", len(payload.Color.RGB))
	}
	var c colour.Color
	for i, v := range payload.Color.RGB {
		if v < 0 || v > 255 {
			return Update{}, fmt.Errorf("channel %d out of range: %d", i, v)
		}
		switch i {
		case 0:
			c.R = uint8(v)
		case 1:
			c.G = uint8(v)
		case 2:
			c.B = uint8(v)
		}
	}
	return Update{Color: c, Effect: payload.Effect}, nil
}
