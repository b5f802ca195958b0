package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/format"

	"github.com/capraCoder/mamadoc/pkg/formatting"
)

// Gateway is the model boundary: one page image in, one structured record
// out, or a typed error. Complete exposes plain text inference for the
// linking consult and the ask endpoint.
type Gateway interface {
	ExtractPage(ctx context.Context, imageData []byte) (Record, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

type gateway struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewGateway creates a Gateway over the configured agent. Agents are
// constructed per call so concurrent page extractions never share one.
func NewGateway(cfg gaconfig.AgentConfig, logger *slog.Logger) Gateway {
	return &gateway{
		cfg:    cfg,
		logger: logger.With("system", "extraction"),
	}
}

func (g *gateway) ExtractPage(ctx context.Context, imageData []byte) (Record, error) {
	dataURI, err := encoding.EncodeImageDataURI(imageData, document.PNG)
	if err != nil {
		return Record{}, fmt.Errorf("%w: encode image: %w", ErrVisionFailed, err)
	}

	a, err := agent.New(&g.cfg)
	if err != nil {
		return Record{}, fmt.Errorf("%w: create agent: %w", ErrVisionFailed, err)
	}

	resp, err := a.Vision(ctx, InstructionPrompt, []format.Image{{URL: dataURI}})
	if err != nil {
		return Record{}, fmt.Errorf("%w: vision call: %w", ErrVisionFailed, err)
	}

	record, err := formatting.Parse[Record](resp.Text())
	if err != nil {
		return Record{}, fmt.Errorf("%w: parse response: %w", ErrVisionFailed, err)
	}

	return record, nil
}

func (g *gateway) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&g.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Text(), nil
}
