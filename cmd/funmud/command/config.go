package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Listeners []ListenerConfig `json:"listeners"`
	Gateway   *GatewayConfig   `json:"gateway,omitempty"`
	Assets    AssetsConfig     `json:"assets"`
	Store     StoreConfig      `json:"store"`
	Nats      NatsConfig       `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	for i, l := range c.Listeners {
		if err := l.Validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}
	if c.Gateway != nil {
		el.Add(c.Gateway.Validate())
	}
	el.Add(c.Assets.Validate())
	el.Add(c.Store.Validate())
	el.Add(c.Nats.Validate())

	return el.Err()
}
