package orchestrator

import (
	"errors"
	"time"

	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/normalize"
	"github.com/SaiNageswarS/travel-boot/tools"
	"github.com/google/uuid"
)

type OrchestratorBuilder struct {
	config              OrchestratorConfig
	titleMaxLength      int
	maxContextUserTurns int
}

func NewOrchestratorBuilder() *OrchestratorBuilder {
	return &OrchestratorBuilder{
		config: OrchestratorConfig{
			MaxTokens:   2000,
			Temperature: 0.7,
			Clock:       time.Now,
			NewID:       uuid.NewString,
		},
		titleMaxLength: 30,
	}
}

func (b *OrchestratorBuilder) WithModel(client llm.LLMClient) *OrchestratorBuilder {
	b.config.Model = client
	return b
}

func (b *OrchestratorBuilder) WithStore(store memory.ConversationStore) *OrchestratorBuilder {
	b.config.Store = store
	return b
}

func (b *OrchestratorBuilder) WithAgents(agents AgentCaller) *OrchestratorBuilder {
	b.config.Agents = agents
	return b
}

func (b *OrchestratorBuilder) WithMapper(mapper *tools.Mapper) *OrchestratorBuilder {
	b.config.Mapper = mapper
	return b
}

func (b *OrchestratorBuilder) WithAirlines(airlines *normalize.AirlineDirectory) *OrchestratorBuilder {
	b.config.Renderer = NewToolResultRenderer(airlines)
	return b
}

func (b *OrchestratorBuilder) WithMaxTokens(max int) *OrchestratorBuilder {
	b.config.MaxTokens = max
	return b
}

func (b *OrchestratorBuilder) WithTemperature(temp float64) *OrchestratorBuilder {
	b.config.Temperature = temp
	return b
}

// WithTitleMaxLength sets how many characters of the first message become the title.
// Values below 1 keep the default.
func (b *OrchestratorBuilder) WithTitleMaxLength(max int) *OrchestratorBuilder {
	if max > 0 {
		b.titleMaxLength = max
	}
	return b
}

// WithMaxContextUserTurns limits the history sent to the model; 0 sends everything.
func (b *OrchestratorBuilder) WithMaxContextUserTurns(max int) *OrchestratorBuilder {
	b.maxContextUserTurns = max
	return b
}

func (b *OrchestratorBuilder) WithClock(clock func() time.Time) *OrchestratorBuilder {
	b.config.Clock = clock
	return b
}

func (b *OrchestratorBuilder) WithIDGenerator(newID func() string) *OrchestratorBuilder {
	b.config.NewID = newID
	return b
}

func (b *OrchestratorBuilder) Build() (*Orchestrator, error) {
	if b.config.Model == nil {
		return nil, errors.New("orchestrator requires a model")
	}
	if b.config.Agents == nil {
		return nil, errors.New("orchestrator requires an agent caller")
	}

	if b.config.Store == nil {
		b.config.Store = memory.NewConversationManager(nil)
	}
	if b.config.Mapper == nil {
		b.config.Mapper = tools.NewMapper(normalize.NewDateNormalizer(b.config.Clock), normalize.DefaultLocationResolver())
	}
	if b.config.Renderer == nil {
		b.config.Renderer = NewToolResultRenderer(normalize.DefaultAirlineDirectory())
	}
	b.config.Tools = tools.Definitions()
	b.config.Reconciler = NewReconciler(b.titleMaxLength, b.maxContextUserTurns)

	return &Orchestrator{config: b.config}, nil
}
