// Package bot wires the dispatch core to the Telegram transport: command
// and callback registration, update-to-event adaptation, and reply delivery.
package bot

import (
	"context"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/stickpick/stickpick/core/bootstrap"
	tg "github.com/stickpick/stickpick/core/telegram"
	"github.com/stickpick/stickpick/core/telegram/callbacks"
	"github.com/stickpick/stickpick/core/telegram/commands"
	"github.com/stickpick/stickpick/core/telegram/helpers"
	"github.com/stickpick/stickpick/core/telegram/middleware"
	"github.com/stickpick/stickpick/core/telegram/router"
	"github.com/stickpick/stickpick/core/telegram/ui"
	"github.com/stickpick/stickpick/internal/app"
	"github.com/stickpick/stickpick/internal/gate"
	"github.com/stickpick/stickpick/internal/generation"
	"github.com/stickpick/stickpick/internal/i18n"
	"github.com/stickpick/stickpick/internal/imagefetch"
	"github.com/stickpick/stickpick/internal/intent"
	"github.com/stickpick/stickpick/internal/pipeline"
	"github.com/stickpick/stickpick/internal/reply"
	"github.com/stickpick/stickpick/internal/session"
)

// App owns the wired application graph and satisfies the runner contract.
type App struct {
	cfg        *Config
	db         *sqlx.DB
	dispatcher *app.Dispatcher
	fetcher    *imagefetch.TelegramFetcher
	deliverer  *generation.Deliverer
	pipe       *pipeline.Service
}

// New bootstraps infrastructure and assembles the application graph.
func New(cfg *Config) (*App, error) {
	infra, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	msgs, err := i18n.Load()
	if err != nil {
		_ = infra.DB.Close()
		return nil, err
	}

	runner, err := generation.NewRunner(cfg.Generation)
	if err != nil {
		_ = infra.DB.Close()
		return nil, err
	}

	fetcher := imagefetch.NewTelegramFetcher()
	deliverer := generation.NewDeliverer()
	pipe := pipeline.NewService(cfg.Pipeline, runner.Render, deliverer.Deliver)

	a := &App{
		cfg:       cfg,
		db:        infra.DB,
		fetcher:   fetcher,
		deliverer: deliverer,
		pipe:      pipe,
	}
	a.dispatcher = app.NewDispatcher(
		session.NewPostgresStore(infra.DB),
		reply.NewComposer(msgs),
		gate.New(fetcher, pipe),
		fetcher,
	)
	return a, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()

	register := func(name, description string) {
		reg.RegisterCommand(name, commands.Command{
			Handler:     a.handleText,
			Description: description,
		})
	}
	register("/start", "Greeting and main menu")
	register("/instruction", "How to use the bot")
	register("/lang", "Choose interface language")
	register("/settings", "Show generation properties help")
	register("/A0", "Set sheet format A0")
	register("/A1", "Set sheet format A1")
	register("/A2", "Set sheet format A2")
	register("/A3", "Set sheet format A3")
	register("/A4", "Set sheet format A4")
	register("/photo", "Generate with the photo preset")
	register("/mono", "Generate with the monochrome preset")
	register("/custom", "Generate with your custom properties")

	for _, key := range []string{
		"lang", "instruction",
		"photoPreset", "monochromePreset", "customProperties",
		"en", "ru",
	} {
		if err := reg.RegisterCallback(key, a.handleCallback); err != nil {
			return tg.RunOptions{}, err
		}
	}
	reg.SetCallbackNotFound(a.UnknownCallback())

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(nil, reg, router.TextOptions{
		UnknownText:     a.UnknownText(),
		UnknownDocument: a.UnknownDocument(),
	})...)
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{}),
		tg.Route{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(a.handlePhoto)),
		},
	)

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStop: func(context.Context, tg.Runtime) error {
			a.pipe.Close()
			return a.db.Close()
		},
	}, nil
}

var _ ui.FallbackProvider = (*App)(nil)

// UnknownText routes unmatched text, which is where key=value property
// updates arrive.
func (a *App) UnknownText() tele.HandlerFunc {
	return a.handleText
}

// UnknownDocument routes file uploads sent outside the photo endpoint.
func (a *App) UnknownDocument() tele.HandlerFunc {
	return a.handleDocument
}

// UnknownCallback acknowledges and drops callbacks with no registered key.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(tele.Context) error { return nil }
}

func (a *App) handleText(c tele.Context) error {
	ev := baseEvent(c)
	ev.Kind = intent.KindText
	ev.Text = c.Text()
	return a.dispatch(c, ev)
}

func (a *App) handleCallback(c tele.Context) error {
	ev := baseEvent(c)
	ev.Kind = intent.KindCallback
	ev.CallbackToken = callbacks.CallbackKey(c)
	return a.dispatch(c, ev)
}

func (a *App) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	ev := baseEvent(c)
	ev.Kind = intent.KindPhoto
	ev.Photos = []intent.PhotoVariant{{
		Ref:  msg.Photo.FileID,
		Size: msg.Photo.FileSize,
	}}
	return a.dispatch(c, ev)
}

func (a *App) handleDocument(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return nil
	}
	ev := baseEvent(c)
	ev.Kind = intent.KindDocument
	ev.DocumentRef = msg.Document.FileID
	return a.dispatch(c, ev)
}

// dispatch binds the lazily-constructed bot handle, runs the event through
// the core, and sends at most one reply back to the chat. Handler errors
// never surface to the transport loop.
func (a *App) dispatch(c tele.Context, ev intent.Event) error {
	a.fetcher.Bind(c.Bot().(*tele.Bot))
	a.deliverer.Bind(c.Bot().(*tele.Bot))

	ctx := helpers.BuildContext(c)
	a.dispatcher.Dispatch(ctx, ev, func(p reply.Payload) error {
		if p.Keyboard != nil {
			return helpers.SendText(c, p.Text, &tele.SendOptions{ReplyMarkup: p.Keyboard})
		}
		return helpers.SendText(c, p.Text)
	})
	return nil
}

func baseEvent(c tele.Context) intent.Event {
	var ev intent.Event
	if s := c.Sender(); s != nil {
		ev.UserID = s.ID
		ev.Username = s.Username
		ev.LanguageCode = s.LanguageCode
	}
	if ch := c.Chat(); ch != nil {
		ev.ChatID = ch.ID
	}
	return ev
}
