package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/correia-crespo/triagem/internal/config"
	"github.com/correia-crespo/triagem/internal/consent"
	"github.com/correia-crespo/triagem/internal/core"
	"github.com/correia-crespo/triagem/internal/dispatcher"
	"github.com/correia-crespo/triagem/internal/eventbus"
	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/internal/policy"
)

// Application manages the complete widget lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.TriageService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := consent.OpenFileStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open consent store: %w", err)
	}

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)

	gateway := core.NewHTTPGateway(cfg.Widget.GatewayURL,
		time.Duration(cfg.Widget.RequestTimeoutS)*time.Second)

	service := core.NewTriageService(gateway, policy.NewRegexDetector(), store, eb, cfg.Widget.WhatsAppNumber)

	model := &AppModel{
		appModel:   createInitialAppModel(store),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(store consent.Store) models.AppModel {
	return models.AppModel{
		Messages:     make([]models.DisplayMessage, 0),
		Placeholder:  core.PlaceholderInitial,
		Status:       "Pronto",
		ServiceReady: true,
		NoticeOpen:   !store.NoticeAcknowledged(),
	}
}
