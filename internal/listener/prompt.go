package listener

import (
	"bufio"
	"fmt"
	"io"
)

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Prompt writes the prompt and reads one validated line. The caller owns the
// buffered reader so no input is lost between prompts on the same
// connection.
func Prompt(br *bufio.Reader, w io.Writer, prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if _, err := w.Write([]byte(prompt)); err != nil {
			return "", err
		}

		input, _, err := br.ReadLine()
		if err != nil {
			return "", err
		}

		if config.validator != nil {
			ok, msg := config.validator(string(input))
			if !ok {
				w.Write([]byte(msg))

				tries++
				if config.tries > 0 && config.tries == tries {
					w.Write([]byte("too many tries\n"))
					return "", fmt.Errorf("too many tries")
				}

				continue
			}
		}

		return string(input), nil
	}
}
